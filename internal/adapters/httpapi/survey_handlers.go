package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mitchsmii/EllaRises/internal/app/surveyresponses"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

type surveyResponseRequest struct {
	PersonID *int64 `json:"personId"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (s *Server) handleSubmitSurveyResponse(w http.ResponseWriter, r *http.Request) {
	occID, ok := pathID(r, "occurrenceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	var req surveyResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := surveyresponses.SubmitInput{
		Rating:   req.Rating,
		Comments: req.Comments,
	}
	if req.PersonID != nil {
		pid := domain.PersonID(*req.PersonID)
		in.PersonID = &pid
	}
	resp, err := s.SurveyResponses.Submit(r.Context(), domain.OccurrenceID(occID), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "thank you for your feedback", surveyResponseFromDomain(resp))
}

func (s *Server) handleListSurveyResponses(w http.ResponseWriter, r *http.Request) {
	occID, ok := pathID(r, "occurrenceID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid occurrence id")
		return
	}
	rs, err := s.SurveyResponses.ListByOccurrence(r.Context(), domain.OccurrenceID(occID))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]surveyResponseView, 0, len(rs))
	for _, sr := range rs {
		out = append(out, surveyResponseFromDomain(sr))
	}
	writeOK(w, http.StatusOK, "survey responses", out)
}
