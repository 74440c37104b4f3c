package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelTypes lists the accepted fuel type values.
var FuelTypes = []string{"Petrol", "Diesel", "Electric", "Hybrid", "CNG"}

// PreviousOwner is one entry in a car's append-only ownership history.
type PreviousOwner struct {
	Name   string `bson:"name" json:"name"`
	Phone  string `bson:"phone" json:"phone"`
	Period string `bson:"period" json:"period"`
}

// AgentDetails is the optional contact for the agent who sourced the car.
type AgentDetails struct {
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	Mobile string `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
}

// Car represents an insured vehicle. ChassisNumber and EngineNumber are
// immutable once set; EmployeeID records the employee who manages the record
// and drives list scoping.
type Car struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleNumber     string             `bson:"vehicleNumber" json:"vehicleNumber" validate:"required"`
	ChassisNumber     string             `bson:"chassisNumber" json:"chassisNumber" validate:"required"`
	EngineNumber      string             `bson:"engineNumber" json:"engineNumber" validate:"required"`
	Make              string             `bson:"make" json:"make" validate:"required"`
	Model             string             `bson:"model" json:"model" validate:"required"`
	ManufacturingYear int                `bson:"manufacturingYear" json:"manufacturingYear" validate:"required"`
	FuelType          string             `bson:"fuelType" json:"fuelType" validate:"required,oneof=Petrol Diesel Electric Hybrid CNG"`
	Category          string             `bson:"category" json:"category" validate:"required,oneof=Private Commercial"`
	CC                int                `bson:"cc" json:"cc"`
	RegistrationDate  time.Time          `bson:"registrationDate" json:"registrationDate"`
	InsuranceStatus   string             `bson:"currentInsuranceStatus" json:"currentInsuranceStatus"`
	PreviousOwners    []PreviousOwner    `bson:"previousOwners,omitempty" json:"previousOwners,omitempty"`
	AgentDetails      *AgentDetails      `bson:"agentDetails,omitempty" json:"agentDetails,omitempty"`
	EmployeeID        string             `bson:"employeeId" json:"employeeId"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
