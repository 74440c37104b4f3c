package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/models"
)

func validOwnerPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Asha Rao",
		"address":        "12 MG Road",
		"phone":          "9876543210",
		"email":          "asha@x.com",
		"aadharCard":     "1234-5678-9012",
		"drivingLicense": "KA0120200001234",
	}
}

func TestOwnerHandler_Create(t *testing.T) {
	t.Run("employee-created owner record is self-owned", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		handler := NewOwnerHandler(owners, nil)

		owners.On("InsertOwner", mock.Anything, mock.AnythingOfType("models.Owner")).
			Return(&models.Owner{ID: primitive.NewObjectID()}, nil)

		payload := validOwnerPayload()
		payload["employeeId"] = "someone-else"

		w := httptest.NewRecorder()
		handler.Create(w, authedRequest(http.MethodPost, "/api/owners", jsonBody(t, payload), employeeClaims()))

		require.Equal(t, http.StatusCreated, w.Code)
		inserted := owners.Calls[0].Arguments.Get(1).(models.Owner)
		assert.Equal(t, "emp-uid", inserted.EmployeeID)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		handler := NewOwnerHandler(owners, nil)

		payload := validOwnerPayload()
		payload["email"] = "not-an-email"

		w := httptest.NewRecorder()
		handler.Create(w, authedRequest(http.MethodPost, "/api/owners", jsonBody(t, payload), employeeClaims()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		owners.AssertNotCalled(t, "InsertOwner", mock.Anything, mock.Anything)
	})
}

func TestOwnerHandler_List(t *testing.T) {
	owners := new(MockOwnerCollection)
	handler := NewOwnerHandler(owners, nil)

	owners.On("FindOwners", mock.Anything, bson.M{"employeeId": "emp-uid"}).Return([]models.Owner{}, nil)

	w := httptest.NewRecorder()
	handler.List(w, authedRequest(http.MethodGet, "/api/owners", nil, employeeClaims()))

	assert.Equal(t, http.StatusOK, w.Code)
	owners.AssertExpectations(t)
}

func TestOwnerHandler_Update(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("employee cannot reassign ownership", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		handler := NewOwnerHandler(owners, nil)

		owners.On("UpdateOwner", mock.Anything, bson.M{"_id": id, "employeeId": "emp-uid"}, bson.M{"phone": "111"}).
			Return(&models.Owner{ID: id, EmployeeID: "emp-uid"}, nil)

		body := jsonBody(t, map[string]interface{}{"phone": "111", "employeeId": "someone-else"})
		req := authedRequest(http.MethodPut, "/api/owners/"+id.Hex(), body, employeeClaims())
		req.SetPathValue("id", id.Hex())

		w := httptest.NewRecorder()
		handler.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		owners.AssertExpectations(t)
	})

	t.Run("another employee's record reads as not found", func(t *testing.T) {
		owners := new(MockOwnerCollection)
		handler := NewOwnerHandler(owners, nil)

		owners.On("UpdateOwner", mock.Anything, mock.Anything, mock.Anything).Return(nil, db.ErrNotFound)

		req := authedRequest(http.MethodPut, "/api/owners/"+id.Hex(), jsonBody(t, map[string]interface{}{"phone": "111"}), employeeClaims())
		req.SetPathValue("id", id.Hex())

		w := httptest.NewRecorder()
		handler.Update(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
