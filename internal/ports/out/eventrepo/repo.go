package eventrepo

import (
	"context"
	"time"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repository provides access to event definitions and their occurrences.
type Repository interface {
	CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	SaveEvent(ctx context.Context, e domain.Event) error
	GetEvent(ctx context.Context, id domain.EventID) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, id domain.EventID) error

	CreateOccurrence(ctx context.Context, o domain.Occurrence) (domain.Occurrence, error)
	SaveOccurrence(ctx context.Context, o domain.Occurrence) error
	GetOccurrence(ctx context.Context, id domain.OccurrenceID) (domain.Occurrence, error)
	ListOccurrencesByEvent(ctx context.Context, eventID domain.EventID) ([]domain.Occurrence, error)

	// ListSurveyCandidates returns occurrences whose end time falls inside
	// [start, end], whose owning event's type is not "Survey", and whose
	// survey_sent flag is not yet set. Ordered by end time ascending.
	ListSurveyCandidates(ctx context.Context, start, end time.Time) ([]SurveyCandidate, error)

	// MarkSurveySent flips the per-occurrence dispatch idempotency flag.
	MarkSurveySent(ctx context.Context, id domain.OccurrenceID) error
}

// SurveyCandidate is the read model the survey dispatch job works from.
type SurveyCandidate struct {
	OccurrenceID domain.OccurrenceID
	EventID      domain.EventID
	EventName    string
	EndTime      time.Time
}
