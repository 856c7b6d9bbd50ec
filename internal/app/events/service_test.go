package events

import (
	"context"
	"errors"
	"testing"
	"time"

	memeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/eventrepo"
	mempersonrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/personrepo"
	memregistrationrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/registrationrepo"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

func newService(t *testing.T) (*Service, *memregistrationrepo.Repo) {
	t.Helper()
	events := memeventrepo.NewRepo()
	regs := memregistrationrepo.NewRepo(mempersonrepo.NewRepo())
	return NewService(events, regs), regs
}

func TestService_CreateEvent_RequiresName(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "   "})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}

	e, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: " Summer Gala ", Type: "Fundraiser"})
	if err != nil {
		t.Fatalf("CreateEvent err=%v", err)
	}
	if e.Name != "Summer Gala" {
		t.Fatalf("name=%q", e.Name)
	}
}

func TestService_CreateOccurrence_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	e, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Summer Gala"})
	if err != nil {
		t.Fatalf("CreateEvent err=%v", err)
	}
	start := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)

	_, err = svc.CreateOccurrence(context.Background(), e.ID, CreateOccurrenceInput{
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v, want VALIDATION_ERROR for end before start", err)
	}

	zero := 0
	_, err = svc.CreateOccurrence(context.Background(), e.ID, CreateOccurrenceInput{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Capacity:  &zero,
	})
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v, want VALIDATION_ERROR for zero capacity", err)
	}

	_, err = svc.CreateOccurrence(context.Background(), domain.EventID(999), CreateOccurrenceInput{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	})
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("err=%v, want 404 for missing event", err)
	}
}

func TestService_GetEvent_WithOccurrenceCounts(t *testing.T) {
	t.Parallel()
	svc, regs := newService(t)

	e, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Summer Gala"})
	if err != nil {
		t.Fatalf("CreateEvent err=%v", err)
	}
	start := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
	occ, err := svc.CreateOccurrence(context.Background(), e.ID, CreateOccurrenceInput{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateOccurrence err=%v", err)
	}
	_, err = regs.CreateActive(context.Background(), domain.Registration{
		PersonID:     domain.PersonID(1),
		OccurrenceID: occ.ID,
		Status:       domain.RegistrationActive,
	}, nil)
	if err != nil {
		t.Fatalf("CreateActive err=%v", err)
	}

	_, views, err := svc.GetEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("GetEvent err=%v", err)
	}
	if len(views) != 1 || views[0].ActiveCount != 1 {
		t.Fatalf("views=%+v, want one occurrence with activeCount=1", views)
	}

	_, _, err = svc.GetEvent(context.Background(), domain.EventID(999))
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("err=%v, want 404", err)
	}
}
