// Package contracttest holds behavior suites that every implementation of a
// storage port must pass. Adapter packages wire their own factories into
// these suites from a contract_test.go file.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mitchsmii/EllaRises/internal/domain"
	carpoolrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/carpoolrepo"
	eventrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
	idempotencyport "github.com/mitchsmii/EllaRises/internal/ports/out/idempotency"
	personrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
	registrationrepoport "github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
)

type CleanupFunc = func()

// Env bundles the repositories a suite needs, since registrations and
// matches require coordinated seeding across stores.
type Env struct {
	People        personrepoport.Repository
	Events        eventrepoport.Repository
	Registrations registrationrepoport.Repository
	Carpool       carpoolrepoport.Repository
	Idem          idempotencyport.Store
}

type EnvFactory func(t *testing.T) (Env, CleanupFunc)

func newEnv(t *testing.T, factory EnvFactory) Env {
	t.Helper()
	env, cleanup := factory(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return env
}

func seedPerson(t *testing.T, env Env, email string) domain.Person {
	t.Helper()
	p, err := env.People.Create(context.Background(), domain.Person{
		Email:     email,
		FirstName: "Test",
		LastName:  "Person",
	})
	if err != nil {
		t.Fatalf("seed person %s: %v", email, err)
	}
	return p
}

func seedOccurrence(t *testing.T, env Env, capacity *int) domain.Occurrence {
	t.Helper()
	ev, err := env.Events.CreateEvent(context.Background(), domain.Event{Name: "Contract Event", Type: "Workshop"})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	occ, err := env.Events.CreateOccurrence(context.Background(), domain.Occurrence{
		EventID:   ev.ID,
		StartTime: time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
		Location:  "Hall B",
		Capacity:  capacity,
	})
	if err != nil {
		t.Fatalf("seed occurrence: %v", err)
	}
	return occ
}

func RunIdempotencyStore(t *testing.T, factory EnvFactory) {
	t.Helper()
	ctx := context.Background()
	env := newEnv(t, factory)

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Subject:  "ana@example.com",
		Method:   "POST",
		Route:    "/events/1/rsvp",
		BodyHash: "abc123",
	}

	if _, ok, err := env.Idem.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
		CreatedAt:   time.Unix(1000, 0).UTC(),
	}
	if err := env.Idem.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := env.Idem.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.StatusCode != 201 || got.ContentType != "application/json" || string(got.Body) != `{"success":true}` {
		t.Fatalf("unexpected record: %+v", got)
	}

	// First writer wins: a concurrent duplicate must not replace the
	// stored response.
	rec2 := rec
	rec2.Body = []byte(`{"success":false}`)
	if err := env.Idem.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	got, ok, err = env.Idem.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"success":true}` {
		t.Fatalf("expected first record kept, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// A different body hash is a different request.
	fp2 := fp
	fp2.BodyHash = "def456"
	if _, ok, err := env.Idem.Get(ctx, fp2); err != nil || ok {
		t.Fatalf("distinct fingerprint hit: ok=%v err=%v", ok, err)
	}
}

func RunRegistrationRepo(t *testing.T, factory EnvFactory) {
	t.Helper()
	ctx := context.Background()
	env := newEnv(t, factory)

	ana := seedPerson(t, env, "ana@example.com")
	ben := seedPerson(t, env, "ben@example.com")
	one := 1
	occ := seedOccurrence(t, env, &one)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	reg, err := env.Registrations.CreateActive(ctx, domain.Registration{
		PersonID:     ana.ID,
		OccurrenceID: occ.ID,
		Status:       domain.RegistrationActive,
		CreatedAt:    now,
	}, occ.Capacity)
	if err != nil {
		t.Fatalf("CreateActive: %v", err)
	}
	if reg.ID == 0 {
		t.Fatalf("registration ID not assigned")
	}

	// Duplicate active pair.
	_, err = env.Registrations.CreateActive(ctx, domain.Registration{
		PersonID:     ana.ID,
		OccurrenceID: occ.ID,
		Status:       domain.RegistrationActive,
		CreatedAt:    now,
	}, occ.Capacity)
	if !errors.Is(err, registrationrepoport.ErrDuplicateActive) {
		t.Fatalf("duplicate: err=%v", err)
	}

	// Capacity 1 is full.
	_, err = env.Registrations.CreateActive(ctx, domain.Registration{
		PersonID:     ben.ID,
		OccurrenceID: occ.ID,
		Status:       domain.RegistrationActive,
		CreatedAt:    now,
	}, occ.Capacity)
	if !errors.Is(err, registrationrepoport.ErrCapacityExceeded) {
		t.Fatalf("capacity: err=%v", err)
	}

	if err := env.Registrations.SetAttended(ctx, ana.ID, occ.ID, true); err != nil {
		t.Fatalf("SetAttended: %v", err)
	}
	recipients, err := env.Registrations.ListRecipients(ctx, occ.ID)
	if err != nil {
		t.Fatalf("ListRecipients: %v", err)
	}
	if len(recipients) != 1 || recipients[0].Email != "ana@example.com" || !recipients[0].Attended {
		t.Fatalf("unexpected recipients: %#v", recipients)
	}

	// Cancel frees the slot and the pair.
	if err := env.Registrations.Cancel(ctx, ana.ID, occ.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := env.Registrations.GetActive(ctx, ana.ID, occ.ID); !errors.Is(err, registrationrepoport.ErrNoActive) {
		t.Fatalf("GetActive after cancel: err=%v", err)
	}
	if err := env.Registrations.Cancel(ctx, ana.ID, occ.ID); !errors.Is(err, registrationrepoport.ErrNoActive) {
		t.Fatalf("double cancel: err=%v", err)
	}
	n, err := env.Registrations.CountActive(ctx, occ.ID)
	if err != nil || n != 0 {
		t.Fatalf("CountActive after cancel: n=%d err=%v", n, err)
	}
	if _, err := env.Registrations.CreateActive(ctx, domain.Registration{
		PersonID:     ben.ID,
		OccurrenceID: occ.ID,
		Status:       domain.RegistrationActive,
		CreatedAt:    now,
	}, occ.Capacity); err != nil {
		t.Fatalf("re-register after cancel: %v", err)
	}
}

func RunCarpoolRepo(t *testing.T, factory EnvFactory) {
	t.Helper()
	ctx := context.Background()
	env := newEnv(t, factory)

	occ := seedOccurrence(t, env, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mustUpsertDriver := func(email string, seats int) {
		t.Helper()
		if err := env.Carpool.UpsertDriver(ctx, domain.DriverOffer{
			OccurrenceID: occ.ID, Email: email, Name: "Driver", SeatCount: seats,
		}); err != nil {
			t.Fatalf("UpsertDriver %s: %v", email, err)
		}
	}
	mustUpsertRider := func(email string) {
		t.Helper()
		if err := env.Carpool.UpsertRider(ctx, domain.RiderRequest{
			OccurrenceID: occ.ID, Email: email, Name: "Rider",
		}); err != nil {
			t.Fatalf("UpsertRider %s: %v", email, err)
		}
	}
	match := func(driver, rider string) error {
		_, err := env.Carpool.CreateMatch(ctx, domain.Match{
			OccurrenceID: occ.ID, DriverEmail: driver, RiderEmail: rider, MatchedAt: now,
		})
		return err
	}

	mustUpsertDriver("d1@example.com", 1)
	mustUpsertRider("r1@example.com")
	mustUpsertRider("r2@example.com")

	if err := match("nobody@example.com", "r1@example.com"); !errors.Is(err, carpoolrepoport.ErrDriverNotFound) {
		t.Fatalf("unknown driver: err=%v", err)
	}
	if err := match("d1@example.com", "nobody@example.com"); !errors.Is(err, carpoolrepoport.ErrRiderNotFound) {
		t.Fatalf("unknown rider: err=%v", err)
	}

	if err := match("d1@example.com", "r1@example.com"); err != nil {
		t.Fatalf("first match: %v", err)
	}

	// The retried pair reports duplicate even though the retry filled the
	// driver's last seat.
	if err := match("d1@example.com", "r1@example.com"); !errors.Is(err, carpoolrepoport.ErrDuplicateMatch) {
		t.Fatalf("retried pair: err=%v", err)
	}
	if err := match("d1@example.com", "r2@example.com"); !errors.Is(err, carpoolrepoport.ErrNoSeats) {
		t.Fatalf("full car: err=%v", err)
	}

	mustUpsertDriver("d2@example.com", 3)
	if err := match("d2@example.com", "r1@example.com"); !errors.Is(err, carpoolrepoport.ErrRiderAlreadyMatched) {
		t.Fatalf("matched rider elsewhere: err=%v", err)
	}

	// Withdrawing the rider dissolves their match and frees the seat.
	if err := env.Carpool.RemoveByEmail(ctx, occ.ID, "r1@example.com"); err != nil {
		t.Fatalf("RemoveByEmail: %v", err)
	}
	ms, err := env.Carpool.ListMatches(ctx, occ.ID)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(ms) != 0 {
		t.Fatalf("matches after withdrawal: %#v", ms)
	}
	if err := match("d1@example.com", "r2@example.com"); err != nil {
		t.Fatalf("match after seat freed: %v", err)
	}

	// Email casing never splits a carpool identity.
	mustUpsertDriver("D3@Example.com", 1)
	mustUpsertDriver("d3@example.com", 2)
	ds, err := env.Carpool.ListDrivers(ctx, occ.ID)
	if err != nil {
		t.Fatalf("ListDrivers: %v", err)
	}
	seen := 0
	for _, d := range ds {
		if d.Email == "d3@example.com" {
			seen++
			if d.SeatCount != 2 {
				t.Fatalf("mixed-case upsert did not update: %#v", d)
			}
		}
	}
	if seen != 1 {
		t.Fatalf("mixed-case driver upsert duplicated: %#v", ds)
	}

	mustUpsertRider("R3@Example.com")
	if err := match("D3@EXAMPLE.com", "r3@example.COM"); err != nil {
		t.Fatalf("mixed-case match: %v", err)
	}
	if err := match("d3@example.com", "R3@Example.com"); !errors.Is(err, carpoolrepoport.ErrDuplicateMatch) {
		t.Fatalf("mixed-case retried pair: err=%v", err)
	}

	if err := env.Carpool.RemoveByEmail(ctx, occ.ID, "R3@Example.com"); err != nil {
		t.Fatalf("mixed-case RemoveByEmail: %v", err)
	}
	ms, err = env.Carpool.ListMatches(ctx, occ.ID)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	for _, m := range ms {
		if m.RiderEmail == "r3@example.com" {
			t.Fatalf("mixed-case withdrawal left match: %#v", m)
		}
	}
}
