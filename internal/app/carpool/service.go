package carpool

import (
	"context"
	"errors"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/carpoolrepo"
	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
)

// Service is the carpool coordinator: the manager-facing view of driver
// offers, rider requests and matches for an occurrence.
type Service struct {
	repo   carpoolrepo.Repository
	events eventrepo.Repository
	clk    clockport.Clock
}

func NewService(repo carpoolrepo.Repository, events eventrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, events: events, clk: clk}
}

// Transportation is the coordinator view for one occurrence.
type Transportation struct {
	Drivers         []domain.DriverAvailability
	AvailableRiders []domain.RiderRequest
	Matches         []domain.Match
}

// View assembles the transportation state for an occurrence: every driver
// with its seat availability, riders not yet in a match, and all matches.
func (s *Service) View(ctx context.Context, occurrenceID domain.OccurrenceID) (Transportation, error) {
	if _, err := s.events.GetOccurrence(ctx, occurrenceID); err != nil {
		if errors.Is(err, eventrepo.ErrOccurrenceNotFound) {
			return Transportation{}, &Error{Status: 404, Code: "OCCURRENCE_NOT_FOUND", Message: "event occurrence not found"}
		}
		return Transportation{}, err
	}

	drivers, err := s.repo.ListDrivers(ctx, occurrenceID)
	if err != nil {
		return Transportation{}, err
	}
	riders, err := s.repo.ListRiders(ctx, occurrenceID)
	if err != nil {
		return Transportation{}, err
	}
	matches, err := s.repo.ListMatches(ctx, occurrenceID)
	if err != nil {
		return Transportation{}, err
	}

	matchedByDriver := make(map[string]int)
	matchedRiders := make(map[string]bool)
	for _, m := range matches {
		matchedByDriver[m.DriverEmail]++
		matchedRiders[m.RiderEmail] = true
	}

	out := Transportation{
		Drivers:         make([]domain.DriverAvailability, 0, len(drivers)),
		AvailableRiders: make([]domain.RiderRequest, 0, len(riders)),
		Matches:         matches,
	}
	for _, d := range drivers {
		n := matchedByDriver[d.Email]
		out.Drivers = append(out.Drivers, domain.DriverAvailability{
			Offer:          d,
			MatchedCount:   n,
			AvailableSeats: d.SeatCount - n,
		})
	}
	for _, r := range riders {
		if !matchedRiders[r.Email] {
			out.AvailableRiders = append(out.AvailableRiders, r)
		}
	}
	return out, nil
}

// Match pairs a driver with a rider. The repository enforces the matching
// invariants atomically; this layer translates its sentinels into caller
// facing errors.
func (s *Service) Match(ctx context.Context, occurrenceID domain.OccurrenceID, driverEmail, riderEmail string) (domain.Match, error) {
	if _, err := s.events.GetOccurrence(ctx, occurrenceID); err != nil {
		if errors.Is(err, eventrepo.ErrOccurrenceNotFound) {
			return domain.Match{}, &Error{Status: 404, Code: "OCCURRENCE_NOT_FOUND", Message: "event occurrence not found"}
		}
		return domain.Match{}, err
	}

	m, err := s.repo.CreateMatch(ctx, domain.Match{
		OccurrenceID: occurrenceID,
		DriverEmail:  driverEmail,
		RiderEmail:   riderEmail,
		MatchedAt:    s.clk.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, carpoolrepo.ErrDriverNotFound):
			return domain.Match{}, &Error{Status: 400, Code: "DRIVER_NOT_FOUND", Message: "no driver offer found for that email"}
		case errors.Is(err, carpoolrepo.ErrRiderNotFound):
			return domain.Match{}, &Error{Status: 400, Code: "RIDER_NOT_FOUND", Message: "no ride request found for that email"}
		case errors.Is(err, carpoolrepo.ErrDuplicateMatch):
			return domain.Match{}, &Error{Status: 400, Code: "DUPLICATE_MATCH", Message: "this driver and rider are already matched"}
		case errors.Is(err, carpoolrepo.ErrNoSeats):
			return domain.Match{}, &Error{Status: 400, Code: "NO_SEATS_AVAILABLE", Message: "this driver has no seats available"}
		case errors.Is(err, carpoolrepo.ErrRiderAlreadyMatched):
			return domain.Match{}, &Error{Status: 400, Code: "RIDER_ALREADY_MATCHED", Message: "this rider is already matched with a driver"}
		}
		return domain.Match{}, err
	}
	return m, nil
}
