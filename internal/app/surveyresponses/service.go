package surveyresponses

import (
	"context"
	"errors"
	"strings"

	"github.com/mitchsmii/EllaRises/internal/domain"
	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/eventrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/surveyresponserepo"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Service accepts and lists post-event survey submissions.
type Service struct {
	repo   surveyresponserepo.Repository
	events eventrepo.Repository
	clk    clockport.Clock
}

func NewService(repo surveyresponserepo.Repository, events eventrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, events: events, clk: clk}
}

type SubmitInput struct {
	PersonID *domain.PersonID
	Rating   int
	Comments string
}

func (s *Service) Submit(ctx context.Context, occurrenceID domain.OccurrenceID, in SubmitInput) (domain.SurveyResponse, error) {
	if _, err := s.events.GetOccurrence(ctx, occurrenceID); err != nil {
		if errors.Is(err, eventrepo.ErrOccurrenceNotFound) {
			return domain.SurveyResponse{}, &Error{Status: 404, Code: "OCCURRENCE_NOT_FOUND", Message: "event occurrence not found"}
		}
		return domain.SurveyResponse{}, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return domain.SurveyResponse{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "rating must be between 1 and 5"}
	}
	return s.repo.Create(ctx, domain.SurveyResponse{
		OccurrenceID: occurrenceID,
		PersonID:     in.PersonID,
		Rating:       in.Rating,
		Comments:     strings.TrimSpace(in.Comments),
		SubmittedAt:  s.clk.Now(),
	})
}

func (s *Service) ListByOccurrence(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.SurveyResponse, error) {
	if _, err := s.events.GetOccurrence(ctx, occurrenceID); err != nil {
		if errors.Is(err, eventrepo.ErrOccurrenceNotFound) {
			return nil, &Error{Status: 404, Code: "OCCURRENCE_NOT_FOUND", Message: "event occurrence not found"}
		}
		return nil, err
	}
	return s.repo.ListByOccurrence(ctx, occurrenceID)
}
