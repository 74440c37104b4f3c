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

// OwnerCollection defines the interface for owner record operations
type OwnerCollection interface {
	InsertOwner(ctx context.Context, owner models.Owner) (*models.Owner, error)
	FindOwners(ctx context.Context, filter bson.M) ([]models.Owner, error)
	FindOwner(ctx context.Context, filter bson.M) (*models.Owner, error)
	UpdateOwner(ctx context.Context, filter bson.M, updates bson.M) (*models.Owner, error)
	DeleteOwner(ctx context.Context, filter bson.M) error
}

// MongoOwnerCollection implements OwnerCollection for MongoDB
type MongoOwnerCollection struct {
	Collection *mongo.Collection
}

// InsertOwner inserts an owner record
func (c *MongoOwnerCollection) InsertOwner(ctx context.Context, owner models.Owner) (*models.Owner, error) {
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, owner)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		owner.ID = oid
	}
	return &owner, nil
}

// FindOwners queries owner records matching the filter
func (c *MongoOwnerCollection) FindOwners(ctx context.Context, filter bson.M) ([]models.Owner, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	owners := []models.Owner{}
	if err := cursor.All(ctx, &owners); err != nil {
		return nil, err
	}
	return owners, nil
}

// FindOwner finds a single owner matching the filter
func (c *MongoOwnerCollection) FindOwner(ctx context.Context, filter bson.M) (*models.Owner, error) {
	var owner models.Owner
	err := c.Collection.FindOne(ctx, filter).Decode(&owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}

// UpdateOwner applies a partial update to the owner matching the filter and
// returns the updated record
func (c *MongoOwnerCollection) UpdateOwner(ctx context.Context, filter bson.M, updates bson.M) (*models.Owner, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var owner models.Owner
	err := c.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": updates}, opts).Decode(&owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}

// DeleteOwner removes the owner matching the filter
func (c *MongoOwnerCollection) DeleteOwner(ctx context.Context, filter bson.M) error {
	res, err := c.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
