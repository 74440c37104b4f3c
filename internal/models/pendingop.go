package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingOpState tracks how far a two-system operation has progressed.
type PendingOpState string

const (
	// OpStatePending is set before the identity-provider call is made.
	OpStatePending PendingOpState = "pending"
	// OpStateIdentityDone is set after the identity provider succeeded but
	// before the local write completed.
	OpStateIdentityDone PendingOpState = "identity_done"
	// OpStateCommitted is set once both systems agree.
	OpStateCommitted PendingOpState = "committed"
)

// PendingOp is the outbox record for operations that span the identity
// provider and the local store. Ops left short of committed are picked up by
// reconciliation; they are never dropped silently.
type PendingOp struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      string             `bson:"kind" json:"kind"`
	UID       string             `bson:"uid" json:"uid"`
	State     PendingOpState     `bson:"state" json:"state"`
	Payload   map[string]string  `bson:"payload,omitempty" json:"payload,omitempty"`
	LastError string             `bson:"lastError,omitempty" json:"lastError,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
