package donationrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
)

// People is the slice of personrepo.Repository needed for the donor upsert.
type People interface {
	Create(ctx context.Context, p domain.Person) (domain.Person, error)
	Save(ctx context.Context, p domain.Person) error
	GetByEmail(ctx context.Context, email string) (domain.Person, error)
}

// Repo is an in-memory implementation of donationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	people People

	mu     sync.Mutex
	nextID domain.DonationID
	rows   map[domain.DonationID]domain.Donation
}

func NewRepo(people People) *Repo {
	return &Repo{people: people, nextID: 1, rows: make(map[domain.DonationID]domain.Donation)}
}

func (r *Repo) RecordWithDonor(ctx context.Context, donor domain.Person, d domain.Donation) (domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.people.GetByEmail(ctx, donor.Email)
	switch {
	case err == nil:
		// Refresh contact fields on repeat donors.
		existing.FirstName = donor.FirstName
		existing.LastName = donor.LastName
		if donor.Phone != nil {
			existing.Phone = donor.Phone
		}
		if donor.City != nil {
			existing.City = donor.City
		}
		if donor.State != nil {
			existing.State = donor.State
		}
		if err := r.people.Save(ctx, existing); err != nil {
			return domain.Donation{}, err
		}
		d.PersonID = existing.ID
	case errors.Is(err, personrepo.ErrNotFound):
		created, err := r.people.Create(ctx, donor)
		if err != nil {
			return domain.Donation{}, err
		}
		d.PersonID = created.ID
	default:
		return domain.Donation{}, err
	}

	d.ID = r.nextID
	r.nextID++
	r.rows[d.ID] = d
	return d, nil
}

func (r *Repo) ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Donation, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Donation, 0)
	for _, d := range r.rows {
		if d.PersonID == personID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
