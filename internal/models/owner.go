package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner represents a vehicle owner on record with the agency.
type Owner struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name" validate:"required"`
	Address        string             `bson:"address" json:"address" validate:"required"`
	Phone          string             `bson:"phone" json:"phone" validate:"required"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	AadharCard     string             `bson:"aadharCard" json:"aadharCard" validate:"required"`
	DrivingLicense string             `bson:"drivingLicense" json:"drivingLicense" validate:"required"`
	EmployeeID     string             `bson:"employeeId" json:"employeeId"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
