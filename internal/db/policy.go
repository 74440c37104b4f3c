package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/policydesk/insurance-crm/internal/models"
)

// PolicyCollection defines the interface for policy record operations
type PolicyCollection interface {
	InsertPolicy(ctx context.Context, policy models.Policy) (*models.Policy, error)
	FindPolicies(ctx context.Context, filter bson.M) ([]models.Policy, error)
	FindPolicy(ctx context.Context, filter bson.M) (*models.Policy, error)
	UpdatePolicy(ctx context.Context, filter bson.M, updates bson.M) (*models.Policy, error)
	DeletePolicy(ctx context.Context, filter bson.M) error
}

// MongoPolicyCollection implements PolicyCollection for MongoDB
type MongoPolicyCollection struct {
	Collection *mongo.Collection
}

// InsertPolicy inserts a policy record
func (c *MongoPolicyCollection) InsertPolicy(ctx context.Context, policy models.Policy) (*models.Policy, error) {
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, policy)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		policy.ID = oid
	}
	return &policy, nil
}

// FindPolicies queries policy records matching the filter
func (c *MongoPolicyCollection) FindPolicies(ctx context.Context, filter bson.M) ([]models.Policy, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	policies := []models.Policy{}
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// FindPolicy finds a single policy matching the filter
func (c *MongoPolicyCollection) FindPolicy(ctx context.Context, filter bson.M) (*models.Policy, error) {
	var policy models.Policy
	err := c.Collection.FindOne(ctx, filter).Decode(&policy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// UpdatePolicy applies a partial update to the policy matching the filter
// and returns the updated record
func (c *MongoPolicyCollection) UpdatePolicy(ctx context.Context, filter bson.M, updates bson.M) (*models.Policy, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var policy models.Policy
	err := c.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": updates}, opts).Decode(&policy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// DeletePolicy removes the policy matching the filter
func (c *MongoPolicyCollection) DeletePolicy(ctx context.Context, filter bson.M) error {
	res, err := c.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
