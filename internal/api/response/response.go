// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a successful envelope with a count.
func List(w http.ResponseWriter, count int, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Error maps err to its status and writes a failure envelope. Causes of
// internal errors are logged and never sent.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	status := e.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}
	JSON(w, status, Envelope{Success: false, Message: e.Message, Errors: e.Fields})
}
