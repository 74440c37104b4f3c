package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy represents an insurance policy covering exactly one car for one owner.
type Policy struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CarID          primitive.ObjectID `bson:"carId" json:"carId" validate:"required"`
	OwnerID        primitive.ObjectID `bson:"ownerId" json:"ownerId" validate:"required"`
	PolicyType     string             `bson:"policyType" json:"policyType" validate:"required"`
	PremiumAmount  float64            `bson:"premiumAmount" json:"premiumAmount" validate:"required,gt=0"`
	PolicyDuration string             `bson:"policyDuration" json:"policyDuration" validate:"required"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	CoverageNotes  string             `bson:"coverageNotes,omitempty" json:"coverageNotes,omitempty"`
	EmployeeID     string             `bson:"employeeId" json:"employeeId"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
