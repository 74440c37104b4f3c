package handlers

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/employee"
	"github.com/policydesk/insurance-crm/internal/identity"
	"github.com/policydesk/insurance-crm/internal/middleware"
	"github.com/policydesk/insurance-crm/internal/models"
)

// AuthHandler handles authentication and bootstrap requests
type AuthHandler struct {
	provider identity.Provider
	users    db.UserCollection
	manager  *employee.Manager
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(provider identity.Provider, users db.UserCollection, manager *employee.Manager) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		users:    users,
		manager:  manager,
	}
}

// Login verifies credentials against the identity provider and issues a
// bearer token carrying the role claim.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("%w: email and password are required", apperr.ErrValidation))
		return
	}

	account, err := h.provider.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.provider.IssueToken(account)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err))
		return
	}

	// The local record is informational; a missing one (e.g. a manager
	// bootstrapped without a CRM profile) does not block login.
	user, err := h.users.FindUserByUID(r.Context(), account.UID)
	if err != nil {
		user = nil
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: user})
}

// SetManagerClaim is the first-manager bootstrap endpoint. The rule it
// enforces is the only guard: it succeeds for the sole registered account,
// or idempotently for an existing manager, and is forbidden otherwise.
func (h *AuthHandler) SetManagerClaim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID string `json:"uid"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UID == "" {
		http.Error(w, "Missing uid", http.StatusBadRequest)
		return
	}

	if err := h.manager.BootstrapManager(r.Context(), req.UID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Manager claim set"})
}

// ChangePassword lets the authenticated account replace its temporary
// credential; the local record's passwordChanged flag is flipped and the
// stored temporary password is cleared.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("%w: current and new password are required (min 8 chars)", apperr.ErrValidation))
		return
	}

	if err := h.provider.ChangePassword(r.Context(), claims.UID, req.CurrentPassword, req.NewPassword); err != nil {
		http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	if err := h.users.UpdateUserFields(r.Context(), claims.UID, bson.M{
		"passwordChanged": true,
		"tempPassword":    "",
	}); err != nil {
		// credential already changed; do not fail the request over the flag
		log.WithError(err).WithField("uid", claims.UID).Warn("failed to mark password changed")
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
