package surveyresponses

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/mitchsmii/EllaRises/internal/adapters/memory/clock"
	memeventrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/eventrepo"
	memsurveyresponserepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/surveyresponserepo"
	"github.com/mitchsmii/EllaRises/internal/domain"
)

func newService(t *testing.T) (*Service, domain.OccurrenceID) {
	t.Helper()
	events := memeventrepo.NewRepo()
	ev, err := events.CreateEvent(context.Background(), domain.Event{Name: "Mentor Mixer", Type: "Workshop"})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	occ, err := events.CreateOccurrence(context.Background(), domain.Occurrence{
		EventID:   ev.ID,
		StartTime: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		Location:  "Community Center",
	})
	if err != nil {
		t.Fatalf("seed occurrence: %v", err)
	}
	clk := memclock.NewManualClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	return NewService(memsurveyresponserepo.NewRepo(), events, clk), occ.ID
}

func TestService_Submit_OccurrenceNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.Submit(context.Background(), 999, SubmitInput{Rating: 4})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "OCCURRENCE_NOT_FOUND" {
		t.Fatalf("err=%v, want OCCURRENCE_NOT_FOUND", err)
	}
}

func TestService_Submit_RatingBounds(t *testing.T) {
	t.Parallel()
	svc, occID := newService(t)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(context.Background(), occID, SubmitInput{Rating: rating})
		ae := (*Error)(nil)
		if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
			t.Fatalf("rating=%d: err=%v, want VALIDATION_ERROR", rating, err)
		}
	}
}

func TestService_Submit_AnonymousAllowed(t *testing.T) {
	t.Parallel()
	svc, occID := newService(t)

	sr, err := svc.Submit(context.Background(), occID, SubmitInput{Rating: 5, Comments: "  loved it  "})
	if err != nil {
		t.Fatalf("Submit err=%v", err)
	}
	if sr.PersonID != nil {
		t.Fatalf("personID=%v, want anonymous", sr.PersonID)
	}
	if sr.Comments != "loved it" {
		t.Fatalf("comments=%q", sr.Comments)
	}
	want := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	if !sr.SubmittedAt.Equal(want) {
		t.Fatalf("submittedAt=%v, want %v", sr.SubmittedAt, want)
	}
}

func TestService_ListByOccurrence(t *testing.T) {
	t.Parallel()
	svc, occID := newService(t)

	pid := domain.PersonID(7)
	if _, err := svc.Submit(context.Background(), occID, SubmitInput{PersonID: &pid, Rating: 3}); err != nil {
		t.Fatalf("Submit err=%v", err)
	}
	if _, err := svc.Submit(context.Background(), occID, SubmitInput{Rating: 5}); err != nil {
		t.Fatalf("Submit err=%v", err)
	}

	rs, err := svc.ListByOccurrence(context.Background(), occID)
	if err != nil {
		t.Fatalf("ListByOccurrence err=%v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("responses=%d, want 2", len(rs))
	}

	_, err = svc.ListByOccurrence(context.Background(), 999)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "OCCURRENCE_NOT_FOUND" {
		t.Fatalf("err=%v, want OCCURRENCE_NOT_FOUND", err)
	}
}
