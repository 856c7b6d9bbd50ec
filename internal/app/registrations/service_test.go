package registrations

import (
	"context"
	"errors"
	"testing"
	"time"

	memcarpoolrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/carpoolrepo"
	memclock "github.com/mitchsmii/EllaRises/internal/adapters/memory/clock"
	memeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/eventrepo"
	mempersonrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/personrepo"
	memregistrationrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/registrationrepo"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

type fixture struct {
	svc     *Service
	people  *mempersonrepo.Repo
	events  *memeventrepo.Repo
	regs    *memregistrationrepo.Repo
	carpool *memcarpoolrepo.Repo
	clk     *memclock.ManualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	people := mempersonrepo.NewRepo()
	events := memeventrepo.NewRepo()
	regs := memregistrationrepo.NewRepo(people)
	carpool := memcarpoolrepo.NewRepo()
	clk := memclock.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return &fixture{
		svc:     NewService(regs, events, people, carpool, clk),
		people:  people,
		events:  events,
		regs:    regs,
		carpool: carpool,
		clk:     clk,
	}
}

func (f *fixture) addPerson(t *testing.T, email, first, last string) domain.Person {
	t.Helper()
	p, err := f.people.Create(context.Background(), domain.Person{
		Email:     email,
		FirstName: first,
		LastName:  last,
	})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	return p
}

func (f *fixture) addOccurrence(t *testing.T, capacity *int, deadline *time.Time) domain.Occurrence {
	t.Helper()
	e, err := f.events.CreateEvent(context.Background(), domain.Event{Name: "Summer Gala", Type: "Fundraiser"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	now := f.clk.Now()
	o, err := f.events.CreateOccurrence(context.Background(), domain.Occurrence{
		EventID:              e.ID,
		StartTime:            now.Add(24 * time.Hour),
		EndTime:              now.Add(28 * time.Hour),
		Location:             "Community Center",
		Capacity:             capacity,
		RegistrationDeadline: deadline,
	})
	if err != nil {
		t.Fatalf("create occurrence: %v", err)
	}
	return o
}

func intp(v int) *int { return &v }

func TestService_Create_DefaultConfirmation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	occ := f.addOccurrence(t, nil, nil)

	res, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if res.Message != msgDefault {
		t.Fatalf("message=%q, want default confirmation", res.Message)
	}
	if res.Registration.Status != domain.RegistrationActive {
		t.Fatalf("status=%q", res.Registration.Status)
	}
	n, err := f.svc.CountActive(context.Background(), occ.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountActive=%d err=%v, want 1", n, err)
	}
}

func TestService_Create_OccurrenceNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")

	_, err := f.svc.Create(context.Background(), p.ID, domain.OccurrenceID(999), RSVPInput{Option: domain.TransportNoRide})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "OCCURRENCE_NOT_FOUND" {
		t.Fatalf("err=%v, want OCCURRENCE_NOT_FOUND 404", err)
	}
}

func TestService_Create_EventEnded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	occ := f.addOccurrence(t, nil, nil)

	f.clk.Advance(30 * time.Hour)
	_, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "EVENT_ENDED" {
		t.Fatalf("err=%v, want EVENT_ENDED", err)
	}
}

func TestService_Create_DeadlinePassed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	deadline := f.clk.Now().Add(time.Hour)
	occ := f.addOccurrence(t, nil, &deadline)

	f.clk.Advance(2 * time.Hour)
	_, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "DEADLINE_PASSED" {
		t.Fatalf("err=%v, want DEADLINE_PASSED", err)
	}
}

func TestService_Create_AlreadyRegistered(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	occ := f.addOccurrence(t, nil, nil)

	if _, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide}); err != nil {
		t.Fatalf("first Create err=%v", err)
	}
	_, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{Option: domain.TransportBus})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "ALREADY_REGISTERED" {
		t.Fatalf("err=%v, want ALREADY_REGISTERED", err)
	}
	n, _ := f.svc.CountActive(context.Background(), occ.ID)
	if n != 1 {
		t.Fatalf("CountActive=%d after duplicate, want 1", n)
	}
}

// Capacity 1: A takes the seat, B is rejected, A cancels, B gets the seat.
func TestService_Create_CapacityCancelReopens(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	a := f.addPerson(t, "a@example.com", "Ana", "Lopez")
	b := f.addPerson(t, "b@example.com", "Ben", "Ortiz")
	occ := f.addOccurrence(t, intp(1), nil)

	if _, err := f.svc.Create(context.Background(), a.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide}); err != nil {
		t.Fatalf("A Create err=%v", err)
	}
	_, err := f.svc.Create(context.Background(), b.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "EVENT_FULL" {
		t.Fatalf("B err=%v, want EVENT_FULL", err)
	}

	if err := f.svc.Cancel(context.Background(), a.ID, occ.ID); err != nil {
		t.Fatalf("A Cancel err=%v", err)
	}
	n, _ := f.svc.CountActive(context.Background(), occ.ID)
	if n != 0 {
		t.Fatalf("CountActive=%d after cancel, want 0", n)
	}

	if _, err := f.svc.Create(context.Background(), b.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide}); err != nil {
		t.Fatalf("B retry err=%v", err)
	}
}

func TestService_Create_CarpoolRecordsRider(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	occ := f.addOccurrence(t, nil, nil)

	res, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{
		Option:  domain.TransportCarpool,
		Address: "12 Main St",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if res.Message != msgCarpool {
		t.Fatalf("message=%q", res.Message)
	}
	riders, err := f.carpool.ListRiders(context.Background(), occ.ID)
	if err != nil {
		t.Fatalf("ListRiders err=%v", err)
	}
	if len(riders) != 1 || riders[0].Email != "ana@example.com" || riders[0].Address != "12 Main St" {
		t.Fatalf("riders=%+v", riders)
	}
	if riders[0].Name != "Ana Lopez" {
		t.Fatalf("rider name=%q", riders[0].Name)
	}
}

func TestService_Create_DriveRecordsDriver(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ben@example.com", "Ben", "Ortiz")
	occ := f.addOccurrence(t, nil, nil)

	res, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{
		Option:      domain.TransportDrive,
		Address:     "9 Oak Ave",
		RadiusMiles: 15,
		SeatCount:   3,
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if res.Message != msgDrive {
		t.Fatalf("message=%q", res.Message)
	}
	drivers, err := f.carpool.ListDrivers(context.Background(), occ.ID)
	if err != nil {
		t.Fatalf("ListDrivers err=%v", err)
	}
	if len(drivers) != 1 || drivers[0].SeatCount != 3 || drivers[0].RadiusMiles != 15 {
		t.Fatalf("drivers=%+v", drivers)
	}
}

func TestService_Cancel_NotRegistered(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	occ := f.addOccurrence(t, nil, nil)

	err := f.svc.Cancel(context.Background(), p.ID, occ.ID)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "NOT_REGISTERED" {
		t.Fatalf("err=%v, want NOT_REGISTERED", err)
	}
}

func TestService_Cancel_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.addPerson(t, "ana@example.com", "Ana", "Lopez")
	occ := f.addOccurrence(t, nil, nil)

	if _, err := f.svc.Create(context.Background(), p.ID, occ.ID, RSVPInput{Option: domain.TransportNoRide}); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := f.svc.Cancel(context.Background(), p.ID, occ.ID); err != nil {
		t.Fatalf("Cancel err=%v", err)
	}
	err := f.svc.Cancel(context.Background(), p.ID, occ.ID)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "NOT_REGISTERED" {
		t.Fatalf("second Cancel err=%v, want NOT_REGISTERED", err)
	}
}

// Cancelling withdraws the person from carpool coordination entirely,
// including any match they appear in.
func TestService_Cancel_DissolvesCarpoolMatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	driver := f.addPerson(t, "driver@example.com", "Dee", "Ramos")
	rider := f.addPerson(t, "rider@example.com", "Ria", "Singh")
	occ := f.addOccurrence(t, nil, nil)

	if _, err := f.svc.Create(context.Background(), driver.ID, occ.ID, RSVPInput{Option: domain.TransportDrive, SeatCount: 2}); err != nil {
		t.Fatalf("driver Create err=%v", err)
	}
	if _, err := f.svc.Create(context.Background(), rider.ID, occ.ID, RSVPInput{Option: domain.TransportCarpool}); err != nil {
		t.Fatalf("rider Create err=%v", err)
	}
	if _, err := f.carpool.CreateMatch(context.Background(), domain.Match{
		OccurrenceID: occ.ID,
		DriverEmail:  "driver@example.com",
		RiderEmail:   "rider@example.com",
		MatchedAt:    f.clk.Now(),
	}); err != nil {
		t.Fatalf("CreateMatch err=%v", err)
	}

	if err := f.svc.Cancel(context.Background(), rider.ID, occ.ID); err != nil {
		t.Fatalf("Cancel err=%v", err)
	}

	riders, _ := f.carpool.ListRiders(context.Background(), occ.ID)
	if len(riders) != 0 {
		t.Fatalf("riders=%+v, want none", riders)
	}
	matches, _ := f.carpool.ListMatches(context.Background(), occ.ID)
	if len(matches) != 0 {
		t.Fatalf("matches=%+v, want none", matches)
	}
	drivers, _ := f.carpool.ListDrivers(context.Background(), occ.ID)
	if len(drivers) != 1 {
		t.Fatalf("drivers=%+v, want the driver kept", drivers)
	}
}
