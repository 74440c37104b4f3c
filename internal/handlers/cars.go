package handlers

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/events"
	"github.com/policydesk/insurance-crm/internal/middleware"
	"github.com/policydesk/insurance-crm/internal/models"
	"github.com/policydesk/insurance-crm/internal/scope"
)

// CarHandler handles car CRUD, ownership-scoped per caller role.
type CarHandler struct {
	cars   db.CarCollection
	events *events.Publisher
}

// NewCarHandler creates a new car handler
func NewCarHandler(cars db.CarCollection, events *events.Publisher) *CarHandler {
	return &CarHandler{
		cars:   cars,
		events: events,
	}
}

// List returns cars: all of them for managers, only the caller's own for
// employees.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter, err := scope.ListFilter(claims.Role, claims.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cars, err := h.cars.FindCars(r.Context(), filter)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	writeJSON(w, http.StatusOK, cars)
}

// Create inserts a car. The owning-employee field follows the scoping
// rules: employees always own what they create.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var car models.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(car); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	owner, err := scope.CreateOwner(claims.Role, claims.UID, car.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	car.EmployeeID = owner

	created, err := h.cars.InsertCar(r.Context(), car)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("cars", "created", created.ID.Hex(), created.EmployeeID)
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a car the caller may write. Chassis
// and engine numbers are immutable and stripped for every role; employees
// cannot reassign ownership. A record outside the caller's scope is
// indistinguishable from a missing one.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter, err := scope.LookupFilter(claims.Role, claims.UID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	updates := map[string]interface{}{}
	if err := decodeJSON(r, &updates); err != nil {
		writeError(w, r, err)
		return
	}
	scope.SanitizeCarUpdate(claims.Role, updates)
	if len(updates) == 0 {
		writeError(w, r, fmt.Errorf("%w: no updatable fields", apperr.ErrValidation))
		return
	}

	car, err := h.cars.UpdateCar(r.Context(), filter, bson.M(updates))
	if err != nil {
		if err == db.ErrNotFound {
			writeError(w, r, apperr.ErrNotFoundOrUnauthorized)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("cars", "updated", car.ID.Hex(), car.EmployeeID)
	writeJSON(w, http.StatusOK, car)
}

// Delete removes a car the caller may write.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	filter, err := scope.LookupFilter(claims.Role, claims.UID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.cars.DeleteCar(r.Context(), filter); err != nil {
		if err == db.ErrNotFound {
			writeError(w, r, apperr.ErrNotFoundOrUnauthorized)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("cars", "deleted", id, claims.UID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Car deleted successfully"})
}
