package milestonerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/milestonerepo"
)

// Repo is an in-memory implementation of milestonerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	nextID domain.MilestoneID
	rows   map[domain.MilestoneID]domain.Milestone
}

func NewRepo() *Repo {
	return &Repo{nextID: 1, rows: make(map[domain.MilestoneID]domain.Milestone)}
}

func (r *Repo) Create(ctx context.Context, m domain.Milestone) (domain.Milestone, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	r.rows[m.ID] = m
	return m, nil
}

func (r *Repo) ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Milestone, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Milestone, 0)
	for _, m := range r.rows {
		if m.PersonID == personID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AchievedAt.Equal(out[j].AchievedAt) {
			return out[i].AchievedAt.Before(out[j].AchievedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MilestoneID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return milestonerepo.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
