package handlers

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/middleware"
	"github.com/policydesk/insurance-crm/internal/models"
)

// UserHandler serves the local account records. Unlike the resource
// collections these are keyed by identity-provider uid, and the read rule
// is manager-or-self rather than ownership scoping.
type UserHandler struct {
	users db.UserCollection
}

// NewUserHandler creates a new user handler
func NewUserHandler(users db.UserCollection) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// List returns all employee records. Routing restricts this to managers.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindUsers(r.Context(), bson.M{"role": models.RoleEmployee})
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Get returns one account record, for a manager or the account holder.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	uid := r.PathValue("uid")
	if claims.Role != models.RoleManager && claims.UID != uid {
		writeError(w, r, apperr.ErrForbidden)
		return
	}

	user, err := h.users.FindUserByUID(r.Context(), uid)
	if err != nil {
		if err == db.ErrNotFound {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update changes display fields on one account record, for a manager or
// the account holder. Role, status, and the employee id are owned by the
// lifecycle endpoints and stripped here.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	uid := r.PathValue("uid")
	if claims.Role != models.RoleManager && claims.UID != uid {
		writeError(w, r, apperr.ErrForbidden)
		return
	}

	updates := map[string]interface{}{}
	if err := decodeJSON(r, &updates); err != nil {
		writeError(w, r, err)
		return
	}
	for _, locked := range []string{"_id", "id", "uid", "role", "status", "disabled", "employeeId", "tempPassword", "created_at"} {
		delete(updates, locked)
	}
	if len(updates) == 0 {
		writeError(w, r, fmt.Errorf("%w: no updatable fields", apperr.ErrValidation))
		return
	}

	if err := h.users.UpdateUserFields(r.Context(), uid, bson.M(updates)); err != nil {
		if err == db.ErrNotFound {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}

	user, err := h.users.FindUserByUID(r.Context(), uid)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrStore, err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
