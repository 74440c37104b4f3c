package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/policydesk/insurance-crm/internal/models"
)

// PendingOpCollection defines the interface for the two-system outbox
type PendingOpCollection interface {
	InsertPendingOp(ctx context.Context, op models.PendingOp) (primitive.ObjectID, error)
	UpdatePendingOp(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	FindUncommitted(ctx context.Context) ([]models.PendingOp, error)
	DeletePendingOp(ctx context.Context, id primitive.ObjectID) error
}

// MongoPendingOpCollection implements PendingOpCollection for MongoDB
type MongoPendingOpCollection struct {
	Collection *mongo.Collection
}

// InsertPendingOp records an operation before any external call is made
func (c *MongoPendingOpCollection) InsertPendingOp(ctx context.Context, op models.PendingOp) (primitive.ObjectID, error) {
	op.CreatedAt = time.Now()
	op.UpdatedAt = time.Now()
	op.State = models.OpStatePending

	res, err := c.Collection.InsertOne(ctx, op)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

// UpdatePendingOp advances an op through its lifecycle
func (c *MongoPendingOpCollection) UpdatePendingOp(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindUncommitted returns ops that never reached the committed state
func (c *MongoPendingOpCollection) FindUncommitted(ctx context.Context) ([]models.PendingOp, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"state": bson.M{"$ne": models.OpStateCommitted}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ops := []models.PendingOp{}
	if err := cursor.All(ctx, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// DeletePendingOp removes a resolved op
func (c *MongoPendingOpCollection) DeletePendingOp(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
