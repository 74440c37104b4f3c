package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents account roles in the system
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Status represents the employment status of an account
type Status string

const (
	StatusActive  Status = "Active"
	StatusOnLeave Status = "On Leave"
	StatusDeleted Status = "Deleted"
)

// User represents an account in the local store. The authoritative identity
// (credentials, disabled flag, role claim) lives in the identity provider;
// this record mirrors it and carries the CRM-only fields such as the
// employee business identifier.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID             string             `bson:"uid" json:"uid"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Role            Role               `bson:"role" json:"role"`
	EmployeeID      string             `bson:"employeeId" json:"employeeId"`
	Status          Status             `bson:"status" json:"status"`
	Disabled        bool               `bson:"disabled" json:"disabled"`
	PasswordChanged bool               `bson:"passwordChanged" json:"passwordChanged"`
	TempPassword    string             `bson:"tempPassword,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// Claims represents verified bearer-token claims. The Role here comes from
// the token and is the only role consulted for authorization decisions; the
// stored User.Role is display-only.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Exp   int64  `json:"exp"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// CreateEmployeeRequest represents a manager's create-employee request
type CreateEmployeeRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// CreateEmployeeResponse carries the generated credentials for one-time display
type CreateEmployeeResponse struct {
	Message         string `json:"message"`
	EmployeeID      string `json:"employeeId"`
	DefaultPassword string `json:"defaultPassword"`
}

// UpdateEmployeeRequest represents a manager's profile-update request
type UpdateEmployeeRequest struct {
	UID   string `json:"uid" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// SetStatusRequest represents a manager's status-update request
type SetStatusRequest struct {
	UID    string `json:"uid" validate:"required"`
	Status Status `json:"status" validate:"required"`
}

// ChangePasswordRequest represents a password change by the account holder
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	return role == RoleManager || role == RoleEmployee
}

// IsValidStatus checks if a status is one of the three lifecycle states
func IsValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusOnLeave, StatusDeleted:
		return true
	default:
		return false
	}
}
