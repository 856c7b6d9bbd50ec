package surveyresponserepo

import (
	"context"
	"sort"
	"sync"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repo is an in-memory implementation of surveyresponserepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	nextID domain.SurveyResponseID
	rows   map[domain.SurveyResponseID]domain.SurveyResponse
}

func NewRepo() *Repo {
	return &Repo{nextID: 1, rows: make(map[domain.SurveyResponseID]domain.SurveyResponse)}
}

func (r *Repo) Create(ctx context.Context, sr domain.SurveyResponse) (domain.SurveyResponse, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	sr.ID = r.nextID
	r.nextID++
	r.rows[sr.ID] = cloneResponse(sr)
	return sr, nil
}

func (r *Repo) ListByOccurrence(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.SurveyResponse, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SurveyResponse, 0)
	for _, sr := range r.rows {
		if sr.OccurrenceID == occurrenceID {
			out = append(out, cloneResponse(sr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneResponse(sr domain.SurveyResponse) domain.SurveyResponse {
	cp := sr
	if sr.PersonID != nil {
		v := *sr.PersonID
		cp.PersonID = &v
	}
	return cp
}
