package personrepo

import (
	"context"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repository provides access to participant profiles.
//
// List results are ordered by last name, first name, then id for determinism.
type Repository interface {
	// Create inserts a new person and returns it with the storage-assigned ID.
	Create(ctx context.Context, p domain.Person) (domain.Person, error)

	// Save overwrites an existing person's profile fields.
	Save(ctx context.Context, p domain.Person) error

	GetByID(ctx context.Context, id domain.PersonID) (domain.Person, error)
	GetByEmail(ctx context.Context, email string) (domain.Person, error)

	List(ctx context.Context) ([]domain.Person, error)

	// Delete removes the person. Dependent rows (registrations, milestones,
	// donations) cascade at the storage layer.
	Delete(ctx context.Context, id domain.PersonID) error
}
