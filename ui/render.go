package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"timeclock/internal/errors"
)

func (a *App) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

// respondError maps application error codes onto HTTP statuses
func (a *App) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeNotReady:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
		// Internal details stay out of responses
		a.respondJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	a.respondJSON(w, status, map[string]string{"error": err.Error()})
}

// uuidParam reads a UUID path parameter; a malformed value reads as an
// unknown resource rather than a malformed request
func uuidParam(r *http.Request, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.NotFound(resource)
	}
	return id, nil
}

func (a *App) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.ValidationError("malformed JSON body")
	}
	if err := a.validate.Struct(dst); err != nil {
		return errors.ValidationError(err.Error())
	}
	return nil
}
