package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mitchsmii/EllaRises/internal/app/events"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

type createEventRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type createOccurrenceRequest struct {
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
	Location             string     `json:"location"`
	Capacity             *int       `json:"capacity"`
	RegistrationDeadline *time.Time `json:"registrationDeadline"`
}

type eventDetailView struct {
	Event       eventView        `json:"event"`
	Occurrences []occurrenceView `json:"occurrences"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	es, err := s.Events.ListEvents(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]eventView, 0, len(es))
	for _, e := range es {
		out = append(out, eventFromDomain(e))
	}
	writeOK(w, http.StatusOK, "events", out)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := s.Events.CreateEvent(r.Context(), events.CreateEventInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "event created", eventFromDomain(e))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	e, occs, err := s.Events.GetEvent(r.Context(), domain.EventID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	detail := eventDetailView{
		Event:       eventFromDomain(e),
		Occurrences: make([]occurrenceView, 0, len(occs)),
	}
	for _, o := range occs {
		detail.Occurrences = append(detail.Occurrences, occurrenceFromView(o))
	}
	writeOK(w, http.StatusOK, "event", detail)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if err := s.Events.DeleteEvent(r.Context(), domain.EventID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "event deleted", nil)
}

func (s *Server) handleCreateOccurrence(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req createOccurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := s.Events.CreateOccurrence(r.Context(), domain.EventID(id), events.CreateOccurrenceInput{
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		Location:             req.Location,
		Capacity:             req.Capacity,
		RegistrationDeadline: req.RegistrationDeadline,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "occurrence created", occurrenceFromView(events.OccurrenceView{Occurrence: o}))
}

func (s *Server) handleGetOccurrence(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "occurrenceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	v, err := s.Events.GetOccurrence(r.Context(), domain.OccurrenceID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "occurrence", occurrenceFromView(v))
}
