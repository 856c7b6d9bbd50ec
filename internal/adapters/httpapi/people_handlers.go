package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"

	"github.com/mitchsmii/EllaRises/internal/app/milestones"
	"github.com/mitchsmii/EllaRises/internal/app/people"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

func pathID(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

type createPersonRequest struct {
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     *string    `json:"phone"`
	City      *string    `json:"city"`
	State     *string    `json:"state"`
	Birthdate *time.Time `json:"birthdate"`
}

// updatePersonRequest distinguishes omitted fields from explicit nulls, so a
// PATCH can clear a nullable field without touching the others.
type updatePersonRequest struct {
	Email     nullable.Nullable[string]    `json:"email,omitempty"`
	FirstName nullable.Nullable[string]    `json:"firstName,omitempty"`
	LastName  nullable.Nullable[string]    `json:"lastName,omitempty"`
	Phone     nullable.Nullable[string]    `json:"phone,omitempty"`
	City      nullable.Nullable[string]    `json:"city,omitempty"`
	State     nullable.Nullable[string]    `json:"state,omitempty"`
	Birthdate nullable.Nullable[time.Time] `json:"birthdate,omitempty"`
}

func optionalFromNullable[T any](n nullable.Nullable[T]) people.Optional[T] {
	if !n.IsSpecified() {
		return people.Unspecified[T]()
	}
	if n.IsNull() {
		return people.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return people.Null[T]()
	}
	return people.Some(v)
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	ps, err := s.People.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]personView, 0, len(ps))
	for _, p := range ps {
		out = append(out, personFromDomain(p))
	}
	writeOK(w, http.StatusOK, "people", out)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "personID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	p, err := s.People.Get(r.Context(), domain.PersonID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "person", personFromDomain(p))
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.People.Create(r.Context(), people.CreatePersonInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		City:      req.City,
		State:     req.State,
		Birthdate: req.Birthdate,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "person created", personFromDomain(p))
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "personID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	var req updatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.People.Update(r.Context(), domain.PersonID(id), people.UpdatePersonInput{
		Email:     optionalFromNullable(req.Email),
		FirstName: optionalFromNullable(req.FirstName),
		LastName:  optionalFromNullable(req.LastName),
		Phone:     optionalFromNullable(req.Phone),
		City:      optionalFromNullable(req.City),
		State:     optionalFromNullable(req.State),
		Birthdate: optionalFromNullable(req.Birthdate),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "person updated", personFromDomain(p))
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "personID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	if err := s.People.Delete(r.Context(), domain.PersonID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "person deleted", nil)
}

type createMilestoneRequest struct {
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	AchievedAt *time.Time `json:"achievedAt"`
}

func (s *Server) handleListMilestones(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "personID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	ms, err := s.Milestones.ListByPerson(r.Context(), domain.PersonID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]milestoneView, 0, len(ms))
	for _, m := range ms {
		out = append(out, milestoneFromDomain(m))
	}
	writeOK(w, http.StatusOK, "milestones", out)
}

func (s *Server) handleCreateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "personID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	var req createMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := s.Milestones.Create(r.Context(), domain.PersonID(id), milestones.CreateInput{
		Title:      req.Title,
		Category:   req.Category,
		AchievedAt: req.AchievedAt,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "milestone recorded", milestoneFromDomain(m))
}

func (s *Server) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "milestoneID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid milestone id")
		return
	}
	if err := s.Milestones.Delete(r.Context(), domain.MilestoneID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "milestone deleted", nil)
}
