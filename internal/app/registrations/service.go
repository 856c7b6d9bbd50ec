package registrations

import (
	"context"
	"errors"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/carpoolrepo"
	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
)

const (
	msgCarpool = "RSVP confirmed! Your carpool request has been recorded and a coordinator will reach out with ride details."
	msgDrive   = "RSVP confirmed! Thank you for offering to drive — a coordinator will match riders with you."
	msgBus     = "RSVP confirmed! A seat is reserved for you on the bus."
	msgDefault = "RSVP confirmed! We look forward to seeing you."
)

// Service is the registration ledger: it validates and records RSVPs and
// keeps the carpool coordinator in sync as a side effect.
type Service struct {
	regs    registrationrepo.Repository
	events  eventrepo.Repository
	people  personrepo.Repository
	carpool carpoolrepo.Repository
	clk     clockport.Clock
}

func NewService(
	regs registrationrepo.Repository,
	events eventrepo.Repository,
	people personrepo.Repository,
	carpool carpoolrepo.Repository,
	clk clockport.Clock,
) *Service {
	return &Service{regs: regs, events: events, people: people, carpool: carpool, clk: clk}
}

// Create registers a person for an occurrence.
//
// The repository insert is the arbiter for the duplicate and capacity
// invariants; the occurrence-state checks here decide which error the caller
// sees when the request is doomed regardless of concurrency.
func (s *Service) Create(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID, in RSVPInput) (RSVPResult, error) {
	occ, err := s.events.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		if errors.Is(err, eventrepo.ErrOccurrenceNotFound) {
			return RSVPResult{}, &Error{Status: 404, Code: "OCCURRENCE_NOT_FOUND", Message: "event occurrence not found"}
		}
		return RSVPResult{}, err
	}

	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return RSVPResult{}, &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "no participant profile found"}
		}
		return RSVPResult{}, err
	}

	now := s.clk.Now()
	if now.After(occ.EndTime) {
		return RSVPResult{}, &Error{Status: 400, Code: "EVENT_ENDED", Message: "this event has already ended"}
	}
	if occ.RegistrationDeadline != nil && now.After(*occ.RegistrationDeadline) {
		return RSVPResult{}, &Error{Status: 400, Code: "DEADLINE_PASSED", Message: "the registration deadline for this event has passed"}
	}

	reg, err := s.regs.CreateActive(ctx, domain.Registration{
		PersonID:     personID,
		OccurrenceID: occurrenceID,
		Status:       domain.RegistrationActive,
		CreatedAt:    now,
	}, occ.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, registrationrepo.ErrDuplicateActive):
			return RSVPResult{}, &Error{Status: 400, Code: "ALREADY_REGISTERED", Message: "you are already registered for this event"}
		case errors.Is(err, registrationrepo.ErrCapacityExceeded):
			return RSVPResult{}, &Error{Status: 400, Code: "EVENT_FULL", Message: "this event is full"}
		}
		return RSVPResult{}, err
	}

	msg := msgDefault
	switch in.Option {
	case domain.TransportCarpool:
		msg = msgCarpool
		err = s.carpool.UpsertRider(ctx, domain.RiderRequest{
			OccurrenceID: occurrenceID,
			Email:        person.Email,
			Name:         person.FullName(),
			Phone:        derefString(person.Phone),
			Address:      in.Address,
		})
	case domain.TransportDrive:
		msg = msgDrive
		err = s.carpool.UpsertDriver(ctx, domain.DriverOffer{
			OccurrenceID: occurrenceID,
			Email:        person.Email,
			Name:         person.FullName(),
			Phone:        derefString(person.Phone),
			Address:      in.Address,
			RadiusMiles:  in.RadiusMiles,
			SeatCount:    in.SeatCount,
		})
	case domain.TransportBus:
		msg = msgBus
	case domain.TransportVirtual, domain.TransportNoRide:
		// No carpool side effect.
	}
	if err != nil {
		return RSVPResult{}, err
	}

	return RSVPResult{Registration: reg, Message: msg}, nil
}

// Cancel soft-cancels the active registration for the pair and withdraws the
// person from carpool coordination for the occurrence, dissolving any match
// they appear in.
func (s *Service) Cancel(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) error {
	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "no participant profile found"}
		}
		return err
	}

	if err := s.regs.Cancel(ctx, personID, occurrenceID); err != nil {
		if errors.Is(err, registrationrepo.ErrNoActive) {
			return &Error{Status: 400, Code: "NOT_REGISTERED", Message: "you are not registered for this event"}
		}
		return err
	}

	return s.carpool.RemoveByEmail(ctx, occurrenceID, person.Email)
}

// CountActive returns the number of active registrations for an occurrence.
func (s *Service) CountActive(ctx context.Context, occurrenceID domain.OccurrenceID) (int, error) {
	return s.regs.CountActive(ctx, occurrenceID)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
