package registrationrepo

import (
	"context"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Recipient is a registrant joined to their contact info, used by the survey
// dispatch job. Rows with an empty email are excluded at the repository.
type Recipient struct {
	PersonID  domain.PersonID
	Email     string
	FirstName string
	LastName  string
	Attended  bool
}

// Repository is the registration ledger.
//
// CreateActive is the sole arbiter for the per-pair and capacity invariants:
// implementations must enforce, atomically, that at most one active row
// exists per (person, occurrence) and that the count of active rows for the
// occurrence never exceeds capacity (nil capacity = unlimited). Service-level
// pre-checks are optimizations only.
type Repository interface {
	// CreateActive inserts an active registration, assigning the ID.
	// Returns ErrDuplicateActive or ErrCapacityExceeded on invariant
	// violation.
	CreateActive(ctx context.Context, r domain.Registration, capacity *int) (domain.Registration, error)

	// Cancel flips the active row for the pair to cancelled.
	// Returns ErrNoActive if no active row exists.
	Cancel(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) error

	// GetActive returns the active row for the pair, or ErrNoActive.
	GetActive(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) (domain.Registration, error)

	// CountActive counts active registrations for the occurrence.
	CountActive(ctx context.Context, occurrenceID domain.OccurrenceID) (int, error)

	// SetAttended flags the active row for the pair as attended.
	SetAttended(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID, attended bool) error

	// ListRecipients returns non-cancelled registrants joined to people with
	// a non-empty email, for survey fan-out.
	ListRecipients(ctx context.Context, occurrenceID domain.OccurrenceID) ([]Recipient, error)
}
