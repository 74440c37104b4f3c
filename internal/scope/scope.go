// Package scope decides, per request, which records a caller may read or
// write. Managers see everything; employees see only records whose
// employeeId field equals their own identifier. All functions are pure:
// they transform filters and payloads and never touch the store.
package scope

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/models"
)

// ListFilter returns the query filter for a list operation: unconstrained
// for managers, restricted to the caller's own records for employees.
func ListFilter(role models.Role, callerID string) (bson.M, error) {
	switch role {
	case models.RoleManager:
		return bson.M{}, nil
	case models.RoleEmployee:
		return bson.M{"employeeId": callerID}, nil
	default:
		return nil, apperr.ErrForbidden
	}
}

// CreateOwner resolves the owning-employee identifier for a new record. A
// manager may assign ownership explicitly; anything an employee supplies is
// overwritten with their own identifier.
func CreateOwner(role models.Role, callerID, payloadEmployeeID string) (string, error) {
	switch role {
	case models.RoleManager:
		if payloadEmployeeID != "" {
			return payloadEmployeeID, nil
		}
		return callerID, nil
	case models.RoleEmployee:
		return callerID, nil
	default:
		return "", apperr.ErrForbidden
	}
}

// LookupFilter narrows an update or delete to {id, ownership}. When no
// record matches, the caller cannot tell "absent" from "not yours"; both
// surface as not found. A malformed id is treated the same way.
func LookupFilter(role models.Role, callerID, id string) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFoundOrUnauthorized
	}
	switch role {
	case models.RoleManager:
		return bson.M{"_id": objectID}, nil
	case models.RoleEmployee:
		return bson.M{"_id": objectID, "employeeId": callerID}, nil
	default:
		return nil, apperr.ErrForbidden
	}
}

// SanitizeUpdate strips fields no update may touch. Only managers may move
// a record to another employee; the id and timestamps are server-owned.
func SanitizeUpdate(role models.Role, updates map[string]interface{}) {
	delete(updates, "_id")
	delete(updates, "id")
	delete(updates, "created_at")
	if role != models.RoleManager {
		delete(updates, "employeeId")
	}
}

// SanitizeCarUpdate applies SanitizeUpdate and additionally strips the
// chassis and engine numbers, which are immutable after creation for every
// role.
func SanitizeCarUpdate(role models.Role, updates map[string]interface{}) {
	SanitizeUpdate(role, updates)
	delete(updates, "chassisNumber")
	delete(updates, "engineNumber")
}
