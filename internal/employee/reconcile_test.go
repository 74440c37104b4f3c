package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/models"
)

func TestManager_Reconcile(t *testing.T) {
	t.Run("recreates a lost local record after identity succeeded", func(t *testing.T) {
		mgr, _, users, pending := newTestManager()
		op := models.PendingOp{
			ID:    primitive.NewObjectID(),
			Kind:  opCreateEmployee,
			UID:   "uid-1",
			State: models.OpStateIdentityDone,
			Payload: map[string]string{
				"name":       "Jane Doe",
				"email":      "jane@x.com",
				"employeeId": "Jane@42",
			},
		}

		pending.On("FindUncommitted", mock.Anything).Return([]models.PendingOp{op}, nil)
		users.On("FindUserByUID", mock.Anything, "uid-1").Return(nil, db.ErrNotFound)
		users.On("InsertUser", mock.Anything, mock.AnythingOfType("models.User")).Return(nil)
		pending.On("UpdatePendingOp", mock.Anything, op.ID, bson.M{"state": models.OpStateCommitted}).Return(nil)

		results, err := mgr.Reconcile(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "recommitted", results[0].Action)

		inserted := users.Calls[len(users.Calls)-1].Arguments.Get(1).(models.User)
		assert.Equal(t, "uid-1", inserted.UID)
		assert.Equal(t, "Jane@42", inserted.EmployeeID)
		assert.Equal(t, models.StatusActive, inserted.Status)
	})

	t.Run("skips recreation when the local record already exists", func(t *testing.T) {
		mgr, _, users, pending := newTestManager()
		op := models.PendingOp{
			ID:    primitive.NewObjectID(),
			Kind:  opCreateEmployee,
			UID:   "uid-1",
			State: models.OpStateIdentityDone,
		}

		pending.On("FindUncommitted", mock.Anything).Return([]models.PendingOp{op}, nil)
		users.On("FindUserByUID", mock.Anything, "uid-1").Return(&models.User{UID: "uid-1"}, nil)
		pending.On("UpdatePendingOp", mock.Anything, op.ID, mock.Anything).Return(nil)

		results, err := mgr.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "recommitted", results[0].Action)
		users.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
	})

	t.Run("re-applies a status update", func(t *testing.T) {
		mgr, _, users, pending := newTestManager()
		op := models.PendingOp{
			ID:      primitive.NewObjectID(),
			Kind:    opSetStatus,
			UID:     "uid-1",
			State:   models.OpStateIdentityDone,
			Payload: map[string]string{"status": "Deleted"},
		}

		pending.On("FindUncommitted", mock.Anything).Return([]models.PendingOp{op}, nil)
		users.On("UpdateUserFields", mock.Anything, "uid-1", bson.M{
			"status":   models.StatusDeleted,
			"disabled": true,
		}).Return(nil)
		pending.On("UpdatePendingOp", mock.Anything, op.ID, mock.Anything).Return(nil)

		results, err := mgr.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "recommitted", results[0].Action)
		users.AssertExpectations(t)
	})

	t.Run("ambiguous pending ops are reported, not retried", func(t *testing.T) {
		mgr, provider, users, pending := newTestManager()
		op := models.PendingOp{
			ID:        primitive.NewObjectID(),
			Kind:      opCreateEmployee,
			State:     models.OpStatePending,
			LastError: "identity provider timeout",
		}

		pending.On("FindUncommitted", mock.Anything).Return([]models.PendingOp{op}, nil)

		results, err := mgr.Reconcile(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "needs-attention", results[0].Action)
		assert.Equal(t, "identity provider timeout", results[0].Error)

		users.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
		provider.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty outbox yields an empty report", func(t *testing.T) {
		mgr, _, _, pending := newTestManager()
		pending.On("FindUncommitted", mock.Anything).Return([]models.PendingOp{}, nil)

		results, err := mgr.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
