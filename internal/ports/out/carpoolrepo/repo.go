package carpoolrepo

import (
	"context"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repository persists per-occurrence transportation coordination state:
// driver offers, rider requests, and coordinator-made matches.
//
// CreateMatch is the sole arbiter for the matching invariants and must be
// check-then-act atomic per occurrence. Implementations validate in this
// order, first failure wins: driver offer exists (ErrDriverNotFound), rider
// request exists (ErrRiderNotFound), exact pair not already matched
// (ErrDuplicateMatch), driver has a free seat (ErrNoSeats), rider not
// already matched elsewhere (ErrRiderAlreadyMatched). The duplicate check
// runs before the seat check so a retried match reports ErrDuplicateMatch
// even when the retry filled the driver's last seat.
type Repository interface {
	// UpsertDriver records a driver offer, replacing any existing offer for
	// the same email on the occurrence.
	UpsertDriver(ctx context.Context, o domain.DriverOffer) error

	// UpsertRider records a rider request, replacing any existing request
	// for the same email on the occurrence.
	UpsertRider(ctx context.Context, r domain.RiderRequest) error

	// RemoveByEmail withdraws the email from the occurrence entirely: its
	// driver offer, its rider request, and any match it appears in.
	RemoveByEmail(ctx context.Context, occurrenceID domain.OccurrenceID, email string) error

	ListDrivers(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.DriverOffer, error)
	ListRiders(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.RiderRequest, error)
	ListMatches(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.Match, error)

	// CreateMatch validates and records a pairing, assigning the match ID.
	CreateMatch(ctx context.Context, m domain.Match) (domain.Match, error)
}
