package eventrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
)

// Repo is an in-memory implementation of eventrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu         sync.RWMutex
	nextEvent  domain.EventID
	nextOcc    domain.OccurrenceID
	events     map[domain.EventID]domain.Event
	occurrence map[domain.OccurrenceID]domain.Occurrence
}

func NewRepo() *Repo {
	return &Repo{
		nextEvent:  1,
		nextOcc:    1,
		events:     make(map[domain.EventID]domain.Event),
		occurrence: make(map[domain.OccurrenceID]domain.Occurrence),
	}
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextEvent
	r.nextEvent++
	r.events[e.ID] = e
	return e, nil
}

func (r *Repo) SaveEvent(ctx context.Context, e domain.Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return eventrepo.ErrNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *Repo) GetEvent(ctx context.Context, id domain.EventID) (domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return domain.Event{}, eventrepo.ErrNotFound
	}
	return e, nil
}

func (r *Repo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) DeleteEvent(ctx context.Context, id domain.EventID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return eventrepo.ErrNotFound
	}
	delete(r.events, id)
	for oid, o := range r.occurrence {
		if o.EventID == id {
			delete(r.occurrence, oid)
		}
	}
	return nil
}

func (r *Repo) CreateOccurrence(ctx context.Context, o domain.Occurrence) (domain.Occurrence, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[o.EventID]; !ok {
		return domain.Occurrence{}, eventrepo.ErrNotFound
	}
	o.ID = r.nextOcc
	r.nextOcc++
	r.occurrence[o.ID] = cloneOccurrence(o)
	return o, nil
}

func (r *Repo) SaveOccurrence(ctx context.Context, o domain.Occurrence) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.occurrence[o.ID]; !ok {
		return eventrepo.ErrOccurrenceNotFound
	}
	r.occurrence[o.ID] = cloneOccurrence(o)
	return nil
}

func (r *Repo) GetOccurrence(ctx context.Context, id domain.OccurrenceID) (domain.Occurrence, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.occurrence[id]
	if !ok {
		return domain.Occurrence{}, eventrepo.ErrOccurrenceNotFound
	}
	return cloneOccurrence(o), nil
}

func (r *Repo) ListOccurrencesByEvent(ctx context.Context, eventID domain.EventID) ([]domain.Occurrence, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Occurrence, 0)
	for _, o := range r.occurrence {
		if o.EventID == eventID {
			out = append(out, cloneOccurrence(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) ListSurveyCandidates(ctx context.Context, start, end time.Time) ([]eventrepo.SurveyCandidate, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]eventrepo.SurveyCandidate, 0)
	for _, o := range r.occurrence {
		if o.SurveySent {
			continue
		}
		if o.EndTime.Before(start) || o.EndTime.After(end) {
			continue
		}
		e, ok := r.events[o.EventID]
		if !ok || e.Type == domain.EventTypeSurvey {
			continue
		}
		out = append(out, eventrepo.SurveyCandidate{
			OccurrenceID: o.ID,
			EventID:      e.ID,
			EventName:    e.Name,
			EndTime:      o.EndTime,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndTime.Equal(out[j].EndTime) {
			return out[i].EndTime.Before(out[j].EndTime)
		}
		return out[i].OccurrenceID < out[j].OccurrenceID
	})
	return out, nil
}

func (r *Repo) MarkSurveySent(ctx context.Context, id domain.OccurrenceID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.occurrence[id]
	if !ok {
		return eventrepo.ErrOccurrenceNotFound
	}
	o.SurveySent = true
	r.occurrence[id] = o
	return nil
}

func cloneOccurrence(o domain.Occurrence) domain.Occurrence {
	cp := o
	if o.Capacity != nil {
		v := *o.Capacity
		cp.Capacity = &v
	}
	if o.RegistrationDeadline != nil {
		v := *o.RegistrationDeadline
		cp.RegistrationDeadline = &v
	}
	return cp
}
