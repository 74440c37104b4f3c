package employee

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/models"
)

// ReconcileResult reports what happened to one orphaned pending op.
type ReconcileResult struct {
	OpID   string `json:"opId"`
	Kind   string `json:"kind"`
	UID    string `json:"uid,omitempty"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

const (
	actionRecommitted    = "recommitted"
	actionDiscarded      = "discarded"
	actionNeedsAttention = "needs-attention"
)

// Reconcile sweeps the outbox for operations that never committed and
// re-drives the local half where the identity half is known to have
// succeeded. Ops still in the pending state are ambiguous (the identity
// call may or may not have happened) and are only reported, never retried.
// Reconcile runs when explicitly invoked; there is no background sweep.
func (m *Manager) Reconcile(ctx context.Context) ([]ReconcileResult, error) {
	ops, err := m.pending.FindUncommitted(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStore, err)
	}

	results := make([]ReconcileResult, 0, len(ops))
	for _, op := range ops {
		res := ReconcileResult{OpID: op.ID.Hex(), Kind: op.Kind, UID: op.UID}

		switch op.State {
		case models.OpStatePending:
			res.Action = actionNeedsAttention
			res.Error = op.LastError
		case models.OpStateIdentityDone:
			if err := m.redriveLocal(ctx, op); err != nil {
				res.Action = actionNeedsAttention
				res.Error = err.Error()
			} else {
				m.commitOp(ctx, op.ID)
				res.Action = actionRecommitted
			}
		default:
			res.Action = actionDiscarded
		}

		log.WithFields(log.Fields{"op": res.OpID, "kind": res.Kind, "action": res.Action}).Info("reconciled pending op")
		results = append(results, res)
	}
	return results, nil
}

// redriveLocal repeats the local-store half of an operation whose identity
// half already succeeded.
func (m *Manager) redriveLocal(ctx context.Context, op models.PendingOp) error {
	switch op.Kind {
	case opCreateEmployee:
		_, err := m.users.FindUserByUID(ctx, op.UID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}
		// The temporary password cannot be recovered here; the record is
		// recreated and the manager resets the credential out of band.
		return m.users.InsertUser(ctx, models.User{
			UID:             op.UID,
			Name:            op.Payload["name"],
			Email:           op.Payload["email"],
			Role:            models.RoleEmployee,
			EmployeeID:      op.Payload["employeeId"],
			Status:          models.StatusActive,
			PasswordChanged: false,
		})
	case opUpdateProfile:
		return m.users.UpdateUserFields(ctx, op.UID, bson.M{
			"name":  op.Payload["name"],
			"email": op.Payload["email"],
		})
	case opSetStatus:
		status := models.Status(op.Payload["status"])
		if !models.IsValidStatus(status) {
			return fmt.Errorf("pending op carries invalid status %q", op.Payload["status"])
		}
		return m.users.UpdateUserFields(ctx, op.UID, bson.M{
			"status":   status,
			"disabled": status == models.StatusDeleted,
		})
	case opHardDelete:
		err := m.users.DeleteUserByUID(ctx, op.UID)
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown pending op kind %q", op.Kind)
	}
}
