package registrationrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
)

// People is the slice of personrepo.Repository needed to join recipients.
type People interface {
	GetByID(ctx context.Context, id domain.PersonID) (domain.Person, error)
}

// Repo is an in-memory implementation of registrationrepo.Repository.
// It is safe for concurrent use; the single mutex makes CreateActive's
// duplicate and capacity checks atomic.
type Repo struct {
	people People

	mu     sync.RWMutex
	nextID domain.RegistrationID
	rows   map[domain.RegistrationID]domain.Registration
}

func NewRepo(people People) *Repo {
	return &Repo{
		people: people,
		nextID: 1,
		rows:   make(map[domain.RegistrationID]domain.Registration),
	}
}

func (r *Repo) CreateActive(ctx context.Context, reg domain.Registration, capacity *int) (domain.Registration, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	active := 0
	for _, row := range r.rows {
		if row.OccurrenceID != reg.OccurrenceID || row.Status != domain.RegistrationActive {
			continue
		}
		if row.PersonID == reg.PersonID {
			return domain.Registration{}, registrationrepo.ErrDuplicateActive
		}
		active++
	}
	if capacity != nil && active >= *capacity {
		return domain.Registration{}, registrationrepo.ErrCapacityExceeded
	}

	reg.ID = r.nextID
	reg.Status = domain.RegistrationActive
	r.nextID++
	r.rows[reg.ID] = reg
	return reg, nil
}

func (r *Repo) Cancel(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.PersonID == personID && row.OccurrenceID == occurrenceID && row.Status == domain.RegistrationActive {
			row.Status = domain.RegistrationCancelled
			r.rows[id] = row
			return nil
		}
	}
	return registrationrepo.ErrNoActive
}

func (r *Repo) GetActive(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) (domain.Registration, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.PersonID == personID && row.OccurrenceID == occurrenceID && row.Status == domain.RegistrationActive {
			return row, nil
		}
	}
	return domain.Registration{}, registrationrepo.ErrNoActive
}

func (r *Repo) CountActive(ctx context.Context, occurrenceID domain.OccurrenceID) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, row := range r.rows {
		if row.OccurrenceID == occurrenceID && row.Status == domain.RegistrationActive {
			n++
		}
	}
	return n, nil
}

func (r *Repo) SetAttended(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID, attended bool) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.PersonID == personID && row.OccurrenceID == occurrenceID && row.Status == domain.RegistrationActive {
			row.Attended = attended
			r.rows[id] = row
			return nil
		}
	}
	return registrationrepo.ErrNoActive
}

func (r *Repo) ListRecipients(ctx context.Context, occurrenceID domain.OccurrenceID) ([]registrationrepo.Recipient, error) {
	r.mu.RLock()
	regs := make([]domain.Registration, 0)
	for _, row := range r.rows {
		if row.OccurrenceID == occurrenceID && row.Status != domain.RegistrationCancelled {
			regs = append(regs, row)
		}
	}
	r.mu.RUnlock()

	out := make([]registrationrepo.Recipient, 0, len(regs))
	for _, reg := range regs {
		p, err := r.people.GetByID(ctx, reg.PersonID)
		if err != nil {
			if errors.Is(err, personrepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if p.Email == "" {
			continue
		}
		out = append(out, registrationrepo.Recipient{
			PersonID:  p.ID,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Attended:  reg.Attended,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonID < out[j].PersonID })
	return out, nil
}
