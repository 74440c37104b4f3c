package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/policydesk/insurance-crm/internal/models"
)

// UserCollection defines the interface for local account records
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByUID(ctx context.Context, uid string) (*models.User, error)
	FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	FindUsers(ctx context.Context, filter bson.M) ([]models.User, error)
	UpdateUserFields(ctx context.Context, uid string, fields bson.M) error
	DeleteUserByUID(ctx context.Context, uid string) error
}

// MongoUserCollection implements UserCollection for MongoDB
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new account record
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := c.Collection.InsertOne(ctx, user)
	return err
}

// FindUserByUID finds an account by its identity-provider uid
func (c *MongoUserCollection) FindUserByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := c.Collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmployeeID finds an account by its business identifier
func (c *MongoUserCollection) FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	var user models.User
	err := c.Collection.FindOne(ctx, bson.M{"employeeId": employeeID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUsers finds account records matching the filter
func (c *MongoUserCollection) FindUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserFields applies a partial update to an account record
func (c *MongoUserCollection) UpdateUserFields(ctx context.Context, uid string, fields bson.M) error {
	fields["updated_at"] = time.Now()
	res, err := c.Collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUserByUID removes an account record permanently
func (c *MongoUserCollection) DeleteUserByUID(ctx context.Context, uid string) error {
	res, err := c.Collection.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
