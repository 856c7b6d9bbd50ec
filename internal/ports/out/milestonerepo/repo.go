package milestonerepo

import (
	"context"
	"errors"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

var ErrNotFound = errors.New("milestone not found")

// Repository stores participant milestones.
type Repository interface {
	Create(ctx context.Context, m domain.Milestone) (domain.Milestone, error)
	ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Milestone, error)
	Delete(ctx context.Context, id domain.MilestoneID) error
}
