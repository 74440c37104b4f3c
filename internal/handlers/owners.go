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

// OwnerHandler handles vehicle-owner CRUD, ownership-scoped per caller role.
type OwnerHandler struct {
	owners db.OwnerCollection
	events *events.Publisher
}

// NewOwnerHandler creates a new owner handler
func NewOwnerHandler(owners db.OwnerCollection, events *events.Publisher) *OwnerHandler {
	return &OwnerHandler{
		owners: owners,
		events: events,
	}
}

// List returns owners visible to the caller.
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
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

	owners, err := h.owners.FindOwners(r.Context(), filter)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	writeJSON(w, http.StatusOK, owners)
}

// Create inserts an owner record.
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var owner models.Owner
	if err := decodeJSON(r, &owner); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(owner); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	owning, err := scope.CreateOwner(claims.Role, claims.UID, owner.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	owner.EmployeeID = owning

	created, err := h.owners.InsertOwner(r.Context(), owner)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("owners", "created", created.ID.Hex(), created.EmployeeID)
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to an owner the caller may write.
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	scope.SanitizeUpdate(claims.Role, updates)
	if len(updates) == 0 {
		writeError(w, r, fmt.Errorf("%w: no updatable fields", apperr.ErrValidation))
		return
	}

	owner, err := h.owners.UpdateOwner(r.Context(), filter, bson.M(updates))
	if err != nil {
		if err == db.ErrNotFound {
			writeError(w, r, apperr.ErrNotFoundOrUnauthorized)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("owners", "updated", owner.ID.Hex(), owner.EmployeeID)
	writeJSON(w, http.StatusOK, owner)
}

// Delete removes an owner the caller may write.
func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.owners.DeleteOwner(r.Context(), filter); err != nil {
		if err == db.ErrNotFound {
			writeError(w, r, apperr.ErrNotFoundOrUnauthorized)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("owners", "deleted", id, claims.UID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Owner deleted successfully"})
}
