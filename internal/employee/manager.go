// Package employee owns the account lifecycle: creation, profile updates,
// status transitions, disablement, and deletion, coordinated across the
// identity provider and the local store. The two systems are updated by
// separate calls; every multi-system operation goes through a pending-op
// outbox so a partial failure is visible to reconciliation instead of being
// lost.
package employee

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/identity"
	"github.com/policydesk/insurance-crm/internal/models"
)

// maxIDAttempts bounds the retry loop for employee id generation.
const maxIDAttempts = 5

const (
	opCreateEmployee = "create_employee"
	opUpdateProfile  = "update_profile"
	opSetStatus      = "set_status"
	opHardDelete     = "hard_delete"
)

// Manager mediates between the identity provider and the local user records.
type Manager struct {
	provider identity.Provider
	users    db.UserCollection
	pending  db.PendingOpCollection
}

// NewManager creates an employee lifecycle manager.
func NewManager(provider identity.Provider, users db.UserCollection, pending db.PendingOpCollection) *Manager {
	return &Manager{
		provider: provider,
		users:    users,
		pending:  pending,
	}
}

// Create provisions a new employee: identity account first, then the
// employee role claim, then the local record. The generated temporary
// password is returned for one-time display and additionally kept on the
// local record until the employee changes it.
func (m *Manager) Create(ctx context.Context, name, email string) (*models.CreateEmployeeResponse, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: missing name or email", apperr.ErrValidation)
	}

	employeeID, err := m.allocateEmployeeID(ctx, name)
	if err != nil {
		return nil, err
	}
	defaultPassword := uuid.NewString()

	opID, err := m.pending.InsertPendingOp(ctx, models.PendingOp{
		Kind: opCreateEmployee,
		Payload: map[string]string{
			"name":       name,
			"email":      email,
			"employeeId": employeeID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	account, err := m.provider.CreateAccount(ctx, email, defaultPassword, name)
	if err != nil {
		m.failOp(ctx, opID, err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
	}
	if err := m.provider.SetRoleClaim(ctx, account.UID, models.RoleEmployee); err != nil {
		m.failOp(ctx, opID, err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
	}

	if err := m.pending.UpdatePendingOp(ctx, opID, bson.M{
		"state": models.OpStateIdentityDone,
		"uid":   account.UID,
	}); err != nil {
		log.WithError(err).WithField("uid", account.UID).Error("failed to advance pending op")
	}

	user := models.User{
		UID:             account.UID,
		Name:            name,
		Email:           email,
		Role:            models.RoleEmployee,
		EmployeeID:      employeeID,
		Status:          models.StatusActive,
		Disabled:        false,
		PasswordChanged: false,
		TempPassword:    defaultPassword,
	}
	if err := m.users.InsertUser(ctx, user); err != nil {
		// The identity account now exists without a local record. The op
		// stays uncommitted for reconciliation; no rollback is attempted.
		m.failOp(ctx, opID, err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	m.commitOp(ctx, opID)
	log.WithFields(log.Fields{"uid": account.UID, "employeeId": employeeID}).Info("employee created")

	return &models.CreateEmployeeResponse{
		Message:         "Employee created successfully",
		EmployeeID:      employeeID,
		DefaultPassword: defaultPassword,
	}, nil
}

// UpdateProfile changes an employee's display name and email in both systems.
func (m *Manager) UpdateProfile(ctx context.Context, uid, name, email string) error {
	if uid == "" || name == "" || email == "" {
		return fmt.Errorf("%w: missing uid, name, or email", apperr.ErrValidation)
	}

	opID, err := m.pending.InsertPendingOp(ctx, models.PendingOp{
		Kind:    opUpdateProfile,
		UID:     uid,
		Payload: map[string]string{"name": name, "email": email},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	if err := m.provider.UpdateAccount(ctx, uid, name, email); err != nil {
		m.failOp(ctx, opID, err)
		return fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
	}
	if err := m.pending.UpdatePendingOp(ctx, opID, bson.M{"state": models.OpStateIdentityDone}); err != nil {
		log.WithError(err).WithField("uid", uid).Error("failed to advance pending op")
	}

	if err := m.users.UpdateUserFields(ctx, uid, bson.M{"name": name, "email": email}); err != nil {
		m.failOp(ctx, opID, err)
		return fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	m.commitOp(ctx, opID)
	return nil
}

// SetStatus moves an employee between Active, On Leave, and Deleted.
// Deleted maps to disabled=true in the identity provider; the local record
// is retained, making the transition reversible. Repeating a status is a
// no-op that still succeeds.
func (m *Manager) SetStatus(ctx context.Context, uid string, status models.Status) error {
	if uid == "" {
		return fmt.Errorf("%w: missing uid", apperr.ErrValidation)
	}
	if !models.IsValidStatus(status) {
		return fmt.Errorf("%w: invalid status %q", apperr.ErrValidation, status)
	}
	disabled := status == models.StatusDeleted

	opID, err := m.pending.InsertPendingOp(ctx, models.PendingOp{
		Kind:    opSetStatus,
		UID:     uid,
		Payload: map[string]string{"status": string(status)},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	if err := m.provider.SetDisabled(ctx, uid, disabled); err != nil {
		m.failOp(ctx, opID, err)
		return fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
	}
	if err := m.pending.UpdatePendingOp(ctx, opID, bson.M{"state": models.OpStateIdentityDone}); err != nil {
		log.WithError(err).WithField("uid", uid).Error("failed to advance pending op")
	}

	if err := m.users.UpdateUserFields(ctx, uid, bson.M{"status": status, "disabled": disabled}); err != nil {
		m.failOp(ctx, opID, err)
		return fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	m.commitOp(ctx, opID)
	log.WithFields(log.Fields{"uid": uid, "status": status, "disabled": disabled}).Info("employee status updated")
	return nil
}

// HardDelete permanently removes an employee from both systems. Access is
// revoked the moment the identity account is gone; there is no recovery.
func (m *Manager) HardDelete(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: missing uid", apperr.ErrValidation)
	}

	opID, err := m.pending.InsertPendingOp(ctx, models.PendingOp{
		Kind: opHardDelete,
		UID:  uid,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	if err := m.provider.DeleteAccount(ctx, uid); err != nil {
		m.failOp(ctx, opID, err)
		return fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
	}
	if err := m.pending.UpdatePendingOp(ctx, opID, bson.M{"state": models.OpStateIdentityDone}); err != nil {
		log.WithError(err).WithField("uid", uid).Error("failed to advance pending op")
	}

	if err := m.users.DeleteUserByUID(ctx, uid); err != nil && !errors.Is(err, db.ErrNotFound) {
		m.failOp(ctx, opID, err)
		return fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	m.commitOp(ctx, opID)
	log.WithField("uid", uid).Info("employee deleted permanently")
	return nil
}

// BootstrapManager grants the manager role claim. It succeeds only when the
// identity provider holds exactly one account, or when the target already
// carries the claim (idempotent re-assertion). This is the sole path by
// which the first manager comes to exist.
func (m *Manager) BootstrapManager(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: missing uid", apperr.ErrValidation)
	}

	count, err := m.provider.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
	}
	if count == 1 {
		if err := m.provider.SetRoleClaim(ctx, uid, models.RoleManager); err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrUpstreamIdentity, err)
		}
		log.WithField("uid", uid).Info("manager claim set for first account")
		return nil
	}

	account, err := m.provider.GetAccount(ctx, uid)
	if err == nil && account.Role == models.RoleManager {
		return nil
	}
	return fmt.Errorf("%w: not the first user", apperr.ErrForbidden)
}

func (m *Manager) allocateEmployeeID(ctx context.Context, name string) (string, error) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: missing name", apperr.ErrValidation)
	}
	first := tokens[0]
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := fmt.Sprintf("%s@%d", first, rand.Intn(1000))
		_, err := m.users.FindUserByEmployeeID(ctx, candidate)
		if errors.Is(err, db.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperr.ErrStore, err)
		}
		// taken, try another suffix
	}
	return "", fmt.Errorf("%w: could not allocate a unique employee id", apperr.ErrStore)
}

func (m *Manager) failOp(ctx context.Context, opID primitive.ObjectID, cause error) {
	if err := m.pending.UpdatePendingOp(ctx, opID, bson.M{"lastError": cause.Error()}); err != nil {
		log.WithError(err).Error("failed to record pending op error")
	}
}

func (m *Manager) commitOp(ctx context.Context, opID primitive.ObjectID) {
	if err := m.pending.UpdatePendingOp(ctx, opID, bson.M{"state": models.OpStateCommitted}); err != nil {
		log.WithError(err).Error("failed to commit pending op")
	}
}
