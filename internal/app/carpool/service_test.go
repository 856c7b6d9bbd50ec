package carpool

import (
	"context"
	"errors"
	"testing"
	"time"

	memcarpoolrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/carpoolrepo"
	memclock "github.com/mitchsmii/EllaRises/internal/adapters/memory/clock"
	memeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/eventrepo"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

func newFixture(t *testing.T) (*Service, *memcarpoolrepo.Repo, domain.OccurrenceID) {
	t.Helper()
	events := memeventrepo.NewRepo()
	repo := memcarpoolrepo.NewRepo()
	clk := memclock.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, events, clk)

	e, err := events.CreateEvent(context.Background(), domain.Event{Name: "River Cleanup", Type: "Service"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	o, err := events.CreateOccurrence(context.Background(), domain.Occurrence{
		EventID:   e.ID,
		StartTime: clk.Now().Add(24 * time.Hour),
		EndTime:   clk.Now().Add(28 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create occurrence: %v", err)
	}
	return svc, repo, o.ID
}

func addDriver(t *testing.T, repo *memcarpoolrepo.Repo, occID domain.OccurrenceID, email string, seats int) {
	t.Helper()
	err := repo.UpsertDriver(context.Background(), domain.DriverOffer{
		OccurrenceID: occID,
		Email:        email,
		Name:         "Driver " + email,
		SeatCount:    seats,
	})
	if err != nil {
		t.Fatalf("UpsertDriver(%s): %v", email, err)
	}
}

func addRider(t *testing.T, repo *memcarpoolrepo.Repo, occID domain.OccurrenceID, email string) {
	t.Helper()
	err := repo.UpsertRider(context.Background(), domain.RiderRequest{
		OccurrenceID: occID,
		Email:        email,
		Name:         "Rider " + email,
	})
	if err != nil {
		t.Fatalf("UpsertRider(%s): %v", email, err)
	}
}

func wantMatchError(t *testing.T, err error, code string) {
	t.Helper()
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 400 || ae.Code != code {
		t.Fatalf("err=%v, want %s 400", err, code)
	}
}

func TestService_View_OccurrenceNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)

	_, err := svc.View(context.Background(), domain.OccurrenceID(999))
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("err=%v, want 404", err)
	}
}

// One driver with two seats, two riders, one matched: the view shows one
// seat left and only the unmatched rider as available.
func TestService_View_Availability(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addDriver(t, repo, occID, "d@example.com", 2)
	addRider(t, repo, occID, "r1@example.com")
	addRider(t, repo, occID, "r2@example.com")

	if _, err := svc.Match(context.Background(), occID, "d@example.com", "r1@example.com"); err != nil {
		t.Fatalf("Match err=%v", err)
	}

	view, err := svc.View(context.Background(), occID)
	if err != nil {
		t.Fatalf("View err=%v", err)
	}
	if len(view.Drivers) != 1 {
		t.Fatalf("drivers=%+v", view.Drivers)
	}
	d := view.Drivers[0]
	if d.MatchedCount != 1 || d.AvailableSeats != 1 {
		t.Fatalf("matched=%d available=%d, want 1/1", d.MatchedCount, d.AvailableSeats)
	}
	if len(view.AvailableRiders) != 1 || view.AvailableRiders[0].Email != "r2@example.com" {
		t.Fatalf("availableRiders=%+v, want only r2", view.AvailableRiders)
	}
	if len(view.Matches) != 1 {
		t.Fatalf("matches=%+v", view.Matches)
	}
}

func TestService_Match_DriverNotFound(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addRider(t, repo, occID, "r@example.com")

	_, err := svc.Match(context.Background(), occID, "nobody@example.com", "r@example.com")
	wantMatchError(t, err, "DRIVER_NOT_FOUND")
}

func TestService_Match_RiderNotFound(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addDriver(t, repo, occID, "d@example.com", 2)

	_, err := svc.Match(context.Background(), occID, "d@example.com", "nobody@example.com")
	wantMatchError(t, err, "RIDER_NOT_FOUND")
}

func TestService_Match_SeatLimit(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addDriver(t, repo, occID, "d@example.com", 2)
	addRider(t, repo, occID, "r1@example.com")
	addRider(t, repo, occID, "r2@example.com")
	addRider(t, repo, occID, "r3@example.com")

	if _, err := svc.Match(context.Background(), occID, "d@example.com", "r1@example.com"); err != nil {
		t.Fatalf("match 1 err=%v", err)
	}
	if _, err := svc.Match(context.Background(), occID, "d@example.com", "r2@example.com"); err != nil {
		t.Fatalf("match 2 err=%v", err)
	}
	_, err := svc.Match(context.Background(), occID, "d@example.com", "r3@example.com")
	wantMatchError(t, err, "NO_SEATS_AVAILABLE")
}

func TestService_Match_RiderAlreadyMatched(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addDriver(t, repo, occID, "d1@example.com", 2)
	addDriver(t, repo, occID, "d2@example.com", 2)
	addRider(t, repo, occID, "r@example.com")

	if _, err := svc.Match(context.Background(), occID, "d1@example.com", "r@example.com"); err != nil {
		t.Fatalf("match err=%v", err)
	}
	_, err := svc.Match(context.Background(), occID, "d2@example.com", "r@example.com")
	wantMatchError(t, err, "RIDER_ALREADY_MATCHED")
}

func TestService_Match_DuplicateReported(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addDriver(t, repo, occID, "d@example.com", 2)
	addRider(t, repo, occID, "r@example.com")

	if _, err := svc.Match(context.Background(), occID, "d@example.com", "r@example.com"); err != nil {
		t.Fatalf("match err=%v", err)
	}
	_, err := svc.Match(context.Background(), occID, "d@example.com", "r@example.com")
	wantMatchError(t, err, "DUPLICATE_MATCH")
}

// A retried match against a driver whose last seat the first attempt filled
// still reports the duplicate, not the full car.
func TestService_Match_DuplicateWinsOverFullCar(t *testing.T) {
	t.Parallel()
	svc, repo, occID := newFixture(t)
	addDriver(t, repo, occID, "d@example.com", 1)
	addRider(t, repo, occID, "r@example.com")

	if _, err := svc.Match(context.Background(), occID, "d@example.com", "r@example.com"); err != nil {
		t.Fatalf("match err=%v", err)
	}
	_, err := svc.Match(context.Background(), occID, "d@example.com", "r@example.com")
	wantMatchError(t, err, "DUPLICATE_MATCH")
}
