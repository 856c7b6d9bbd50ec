package personrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
)

// Repo is an in-memory implementation of personrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	nextID domain.PersonID
	byID   map[domain.PersonID]domain.Person
}

func NewRepo() *Repo {
	return &Repo{nextID: 1, byID: make(map[domain.PersonID]domain.Person)}
}

func (r *Repo) Create(ctx context.Context, p domain.Person) (domain.Person, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	email := domain.NormalizeEmail(p.Email)
	for _, existing := range r.byID {
		if domain.NormalizeEmail(existing.Email) == email {
			return domain.Person{}, personrepo.ErrEmailConflict
		}
	}
	p.ID = r.nextID
	p.Email = email
	r.nextID++
	r.byID[p.ID] = clonePerson(p)
	return p, nil
}

func (r *Repo) Save(ctx context.Context, p domain.Person) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return personrepo.ErrNotFound
	}
	email := domain.NormalizeEmail(p.Email)
	// Email stays unique across people on update too.
	for id, existing := range r.byID {
		if id != p.ID && domain.NormalizeEmail(existing.Email) == email {
			return personrepo.ErrEmailConflict
		}
	}
	p.Email = email
	r.byID[p.ID] = clonePerson(p)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PersonID) (domain.Person, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Person{}, personrepo.ErrNotFound
	}
	return clonePerson(p), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Person, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = domain.NormalizeEmail(email)
	for _, p := range r.byID {
		if domain.NormalizeEmail(p.Email) == email {
			return clonePerson(p), nil
		}
	}
	return domain.Person{}, personrepo.ErrNotFound
}

func (r *Repo) List(ctx context.Context) ([]domain.Person, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Person, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePerson(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PersonID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return personrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func clonePerson(p domain.Person) domain.Person {
	cp := p
	cp.Phone = cloneStringPtr(p.Phone)
	cp.City = cloneStringPtr(p.City)
	cp.State = cloneStringPtr(p.State)
	cp.Birthdate = cloneTimePtr(p.Birthdate)
	return cp
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
