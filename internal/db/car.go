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

// CarCollection defines the interface for car record operations. Update and
// delete take the full scoped filter (id + ownership) so that one call
// decides both existence and authorization.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) (*models.Car, error)
	FindCars(ctx context.Context, filter bson.M) ([]models.Car, error)
	FindCar(ctx context.Context, filter bson.M) (*models.Car, error)
	UpdateCar(ctx context.Context, filter bson.M, updates bson.M) (*models.Car, error)
	DeleteCar(ctx context.Context, filter bson.M) error
}

// MongoCarCollection implements CarCollection for MongoDB
type MongoCarCollection struct {
	Collection *mongo.Collection
}

// InsertCar inserts a car record
func (c *MongoCarCollection) InsertCar(ctx context.Context, car models.Car) (*models.Car, error) {
	car.CreatedAt = time.Now()
	car.UpdatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, car)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		car.ID = oid
	}
	return &car, nil
}

// FindCars queries car records matching the filter
func (c *MongoCarCollection) FindCars(ctx context.Context, filter bson.M) ([]models.Car, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// FindCar finds a single car matching the filter
func (c *MongoCarCollection) FindCar(ctx context.Context, filter bson.M) (*models.Car, error) {
	var car models.Car
	err := c.Collection.FindOne(ctx, filter).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

// UpdateCar applies a partial update to the car matching the filter and
// returns the updated record
func (c *MongoCarCollection) UpdateCar(ctx context.Context, filter bson.M, updates bson.M) (*models.Car, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var car models.Car
	err := c.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": updates}, opts).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

// DeleteCar removes the car matching the filter
func (c *MongoCarCollection) DeleteCar(ctx context.Context, filter bson.M) error {
	res, err := c.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
