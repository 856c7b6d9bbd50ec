package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mitchsmii/EllaRises/internal/app/carpool"
	"github.com/mitchsmii/EllaRises/internal/app/donations"
	"github.com/mitchsmii/EllaRises/internal/app/events"
	"github.com/mitchsmii/EllaRises/internal/app/milestones"
	"github.com/mitchsmii/EllaRises/internal/app/people"
	"github.com/mitchsmii/EllaRises/internal/app/registrations"
	"github.com/mitchsmii/EllaRises/internal/app/surveyresponses"
)

// envelope is the uniform response shape: success + human-readable message,
// plus an optional payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// serviceErrorParts unwraps an app-layer error into its HTTP status and
// client-safe message. Returns false for unexpected (storage, bug) errors.
func serviceErrorParts(err error) (int, string, bool) {
	var pe *people.Error
	if errors.As(err, &pe) {
		return pe.Status, pe.Message, true
	}
	var ee *events.Error
	if errors.As(err, &ee) {
		return ee.Status, ee.Message, true
	}
	var re *registrations.Error
	if errors.As(err, &re) {
		return re.Status, re.Message, true
	}
	var ce *carpool.Error
	if errors.As(err, &ce) {
		return ce.Status, ce.Message, true
	}
	var de *donations.Error
	if errors.As(err, &de) {
		return de.Status, de.Message, true
	}
	var me *milestones.Error
	if errors.As(err, &me) {
		return me.Status, me.Message, true
	}
	var se *surveyresponses.Error
	if errors.As(err, &se) {
		return se.Status, se.Message, true
	}
	return 0, "", false
}

// writeServiceError maps an app error to the envelope. Anything that is not
// a typed app error is logged with its detail and surfaced as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if status, msg, ok := serviceErrorParts(err); ok {
		writeError(w, status, msg)
		return
	}
	s.Log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
