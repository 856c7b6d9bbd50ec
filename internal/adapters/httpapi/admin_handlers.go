package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

func (s *Server) handleTransportation(w http.ResponseWriter, r *http.Request) {
	occID, ok := pathID(r, "occurrenceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	t, err := s.Carpool.View(r.Context(), domain.OccurrenceID(occID))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "transportation", transportationFromApp(t))
}

type matchRequest struct {
	DriverEmail string `json:"driverEmail"`
	RiderEmail  string `json:"riderEmail"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	occID, ok := pathID(r, "occurrenceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	route := fmt.Sprintf("/admin/events/%d/match", occID)
	fp, useIdem := s.idempotencyFingerprint(r, route, body)
	if useIdem && s.replayIdempotent(w, r, fp) {
		return
	}

	var req matchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DriverEmail == "" || req.RiderEmail == "" {
		writeError(w, http.StatusBadRequest, "driverEmail and riderEmail are required")
		return
	}

	m, err := s.Carpool.Match(r.Context(), domain.OccurrenceID(occID), req.DriverEmail, req.RiderEmail)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp, err := json.Marshal(envelope{Success: true, Message: "match created", Data: matchFromDomain(m)})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if useIdem {
		s.storeIdempotent(r.Context(), fp, http.StatusCreated, resp)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(resp)
}

// handleDispatchSurveys runs the survey job on demand, same code path as the
// cron binary.
func (s *Server) handleDispatchSurveys(w http.ResponseWriter, r *http.Request) {
	if s.Dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, "survey dispatch not configured")
		return
	}
	summary, err := s.Dispatcher.Run(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "survey dispatch complete", summary)
}
