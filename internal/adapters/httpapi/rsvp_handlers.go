package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mitchsmii/EllaRises/internal/app/registrations"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

type rsvpRequest struct {
	Option    string `json:"option"`
	Address   string `json:"address"`
	Radius    int    `json:"radius"`
	SeatCount int    `json:"seatCount"`
}

// callerPerson resolves the authenticated credential to its participant
// profile. A credential without a profile cannot RSVP.
func (s *Server) callerPerson(w http.ResponseWriter, r *http.Request) (domain.Person, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing subject")
		return domain.Person{}, false
	}
	p, err := s.People.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return domain.Person{}, false
	}
	return p, true
}

func (s *Server) handleCreateRSVP(w http.ResponseWriter, r *http.Request) {
	occID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	route := fmt.Sprintf("/events/%d/rsvp", occID)
	fp, useIdem := s.idempotencyFingerprint(r, route, body)
	if useIdem && s.replayIdempotent(w, r, fp) {
		return
	}

	var req rsvpRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	option, err := domain.ParseTransportOption(req.Option)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown transportation option")
		return
	}

	person, ok := s.callerPerson(w, r)
	if !ok {
		return
	}

	result, err := s.Registrations.Create(r.Context(), person.ID, domain.OccurrenceID(occID), registrations.RSVPInput{
		Option:      option,
		Address:     req.Address,
		RadiusMiles: req.Radius,
		SeatCount:   req.SeatCount,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp, err := json.Marshal(envelope{Success: true, Message: result.Message})
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

func (s *Server) handleCancelRSVP(w http.ResponseWriter, r *http.Request) {
	occID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	person, ok := s.callerPerson(w, r)
	if !ok {
		return
	}
	if err := s.Registrations.Cancel(r.Context(), person.ID, domain.OccurrenceID(occID)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "registration cancelled", nil)
}
