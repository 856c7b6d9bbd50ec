package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
)

// Service manages the event catalog: definitions and their occurrences.
type Service struct {
	events eventrepo.Repository
	regs   registrationrepo.Repository
}

func NewService(events eventrepo.Repository, regs registrationrepo.Repository) *Service {
	return &Service{events: events, regs: regs}
}

type CreateEventInput struct {
	Name        string
	Type        string
	Description string
}

type CreateOccurrenceInput struct {
	StartTime            time.Time
	EndTime              time.Time
	Location             string
	Capacity             *int
	RegistrationDeadline *time.Time
}

// OccurrenceView is an occurrence plus its active registration count.
type OccurrenceView struct {
	Occurrence  domain.Occurrence
	ActiveCount int
}

func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Event{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "event name is required"}
	}
	return s.events.CreateEvent(ctx, domain.Event{
		Name:        name,
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
	})
}

func (s *Service) GetEvent(ctx context.Context, id domain.EventID) (domain.Event, []OccurrenceView, error) {
	e, err := s.events.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, eventrepo.ErrNotFound) {
			return domain.Event{}, nil, &Error{Status: 404, Code: "EVENT_NOT_FOUND", Message: "event not found"}
		}
		return domain.Event{}, nil, err
	}
	occs, err := s.events.ListOccurrencesByEvent(ctx, id)
	if err != nil {
		return domain.Event{}, nil, err
	}
	views := make([]OccurrenceView, 0, len(occs))
	for _, o := range occs {
		n, err := s.regs.CountActive(ctx, o.ID)
		if err != nil {
			return domain.Event{}, nil, err
		}
		views = append(views, OccurrenceView{Occurrence: o, ActiveCount: n})
	}
	return e, views, nil
}

func (s *Service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.ListEvents(ctx)
}

func (s *Service) DeleteEvent(ctx context.Context, id domain.EventID) error {
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, eventrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "EVENT_NOT_FOUND", Message: "event not found"}
		}
		return err
	}
	return nil
}

func (s *Service) CreateOccurrence(ctx context.Context, eventID domain.EventID, in CreateOccurrenceInput) (domain.Occurrence, error) {
	if in.EndTime.Before(in.StartTime) {
		return domain.Occurrence{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "end time must be on or after start time"}
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		return domain.Occurrence{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "capacity must be at least 1"}
	}
	o, err := s.events.CreateOccurrence(ctx, domain.Occurrence{
		EventID:              eventID,
		StartTime:            in.StartTime.UTC(),
		EndTime:              in.EndTime.UTC(),
		Location:             strings.TrimSpace(in.Location),
		Capacity:             in.Capacity,
		RegistrationDeadline: in.RegistrationDeadline,
	})
	if err != nil {
		if errors.Is(err, eventrepo.ErrNotFound) {
			return domain.Occurrence{}, &Error{Status: 404, Code: "EVENT_NOT_FOUND", Message: "event not found"}
		}
		return domain.Occurrence{}, err
	}
	return o, nil
}

func (s *Service) GetOccurrence(ctx context.Context, id domain.OccurrenceID) (OccurrenceView, error) {
	o, err := s.events.GetOccurrence(ctx, id)
	if err != nil {
		if errors.Is(err, eventrepo.ErrOccurrenceNotFound) {
			return OccurrenceView{}, &Error{Status: 404, Code: "OCCURRENCE_NOT_FOUND", Message: "event occurrence not found"}
		}
		return OccurrenceView{}, err
	}
	n, err := s.regs.CountActive(ctx, id)
	if err != nil {
		return OccurrenceView{}, err
	}
	return OccurrenceView{Occurrence: o, ActiveCount: n}, nil
}
