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

// PolicyHandler handles policy CRUD, ownership-scoped per caller role.
type PolicyHandler struct {
	policies db.PolicyCollection
	events   *events.Publisher
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policies db.PolicyCollection, events *events.Publisher) *PolicyHandler {
	return &PolicyHandler{
		policies: policies,
		events:   events,
	}
}

// List returns policies visible to the caller.
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
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

	policies, err := h.policies.FindPolicies(r.Context(), filter)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	writeJSON(w, http.StatusOK, policies)
}

// Create inserts a policy referencing one car and one owner.
func (h *PolicyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var policy models.Policy
	if err := decodeJSON(r, &policy); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(policy); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	owning, err := scope.CreateOwner(claims.Role, claims.UID, policy.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	policy.EmployeeID = owning

	created, err := h.policies.InsertPolicy(r.Context(), policy)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("policies", "created", created.ID.Hex(), created.EmployeeID)
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a policy the caller may write.
func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	policy, err := h.policies.UpdatePolicy(r.Context(), filter, bson.M(updates))
	if err != nil {
		if err == db.ErrNotFound {
			writeError(w, r, apperr.ErrNotFoundOrUnauthorized)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("policies", "updated", policy.ID.Hex(), policy.EmployeeID)
	writeJSON(w, http.StatusOK, policy)
}

// Delete removes a policy the caller may write.
func (h *PolicyHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.policies.DeletePolicy(r.Context(), filter); err != nil {
		if err == db.ErrNotFound {
			writeError(w, r, apperr.ErrNotFoundOrUnauthorized)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	h.events.Publish("policies", "deleted", id, claims.UID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Policy deleted successfully"})
}
