package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/policydesk/insurance-crm/internal/apperr"
)

// validate is the shared request validator.
var validate = validator.New(validator.WithRequiredStructEnabled())

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps an error onto the taxonomy and writes the terse
// user-visible message. 500-class causes are logged, not disclosed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}
	http.Error(w, apperr.Message(err), status)
}

// decodeJSON decodes the request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.ErrValidation
	}
	return nil
}
