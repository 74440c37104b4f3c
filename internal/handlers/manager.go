package handlers

import (
	"fmt"
	"net/http"

	"github.com/policydesk/insurance-crm/internal/apperr"
	"github.com/policydesk/insurance-crm/internal/employee"
	"github.com/policydesk/insurance-crm/internal/events"
	"github.com/policydesk/insurance-crm/internal/models"
)

// ManagerHandler handles the employee lifecycle endpoints. Routing already
// guarantees a manager caller.
type ManagerHandler struct {
	manager *employee.Manager
	events  *events.Publisher
}

// NewManagerHandler creates a new manager handler
func NewManagerHandler(manager *employee.Manager, events *events.Publisher) *ManagerHandler {
	return &ManagerHandler{
		manager: manager,
		events:  events,
	}
}

// CreateEmployee provisions a new employee account and returns the
// generated employee id and temporary password for one-time display.
func (h *ManagerHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Missing name or email", http.StatusBadRequest)
		return
	}

	resp, err := h.manager.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.events.Publish("users", "created", resp.EmployeeID, resp.EmployeeID)
	writeJSON(w, http.StatusCreated, resp)
}

// UpdateEmployee updates an employee's name and email in both systems.
func (h *ManagerHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Missing uid, name, or email", http.StatusBadRequest)
		return
	}

	if err := h.manager.UpdateProfile(r.Context(), req.UID, req.Name, req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	h.events.Publish("users", "updated", req.UID, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee updated successfully"})
}

// SetStatus updates an employee's lifecycle status. "Deleted" disables the
// identity account but keeps the local record; it is reversible.
func (h *ManagerHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.SetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UID == "" {
		http.Error(w, "Missing uid", http.StatusBadRequest)
		return
	}
	if !models.IsValidStatus(req.Status) {
		writeError(w, r, fmt.Errorf("%w: status must be one of Active, On Leave, Deleted", apperr.ErrValidation))
		return
	}

	if err := h.manager.SetStatus(r.Context(), req.UID, req.Status); err != nil {
		writeError(w, r, err)
		return
	}

	h.events.Publish("users", "status", req.UID, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee status updated successfully"})
}

// DeleteEmployee permanently removes an employee from the identity provider
// and the local store.
func (h *ManagerHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	if uid == "" {
		http.Error(w, "Missing uid", http.StatusBadRequest)
		return
	}

	if err := h.manager.HardDelete(r.Context(), uid); err != nil {
		writeError(w, r, err)
		return
	}

	h.events.Publish("users", "deleted", uid, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted permanently"})
}

// Reconcile sweeps the pending-op outbox and reports what was re-driven.
func (h *ManagerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	results, err := h.manager.Reconcile(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reconciled": results})
}
