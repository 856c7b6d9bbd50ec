package milestones

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mitchsmii/EllaRises/internal/domain"
	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/milestonerepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
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

// Service manages participant milestones.
type Service struct {
	repo   milestonerepo.Repository
	people personrepo.Repository
	clk    clockport.Clock
}

func NewService(repo milestonerepo.Repository, people personrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, people: people, clk: clk}
}

type CreateInput struct {
	Title      string
	Category   string
	AchievedAt *time.Time
}

func (s *Service) Create(ctx context.Context, personID domain.PersonID, in CreateInput) (domain.Milestone, error) {
	if _, err := s.people.GetByID(ctx, personID); err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Milestone{}, &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "person not found"}
		}
		return domain.Milestone{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Milestone{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "milestone title is required"}
	}
	achievedAt := s.clk.Now()
	if in.AchievedAt != nil {
		achievedAt = in.AchievedAt.UTC()
	}
	return s.repo.Create(ctx, domain.Milestone{
		PersonID:   personID,
		Title:      title,
		Category:   strings.TrimSpace(in.Category),
		AchievedAt: achievedAt,
	})
}

func (s *Service) ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Milestone, error) {
	if _, err := s.people.GetByID(ctx, personID); err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return nil, &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "person not found"}
		}
		return nil, err
	}
	return s.repo.ListByPerson(ctx, personID)
}

func (s *Service) Delete(ctx context.Context, id domain.MilestoneID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, milestonerepo.ErrNotFound) {
			return &Error{Status: 404, Code: "MILESTONE_NOT_FOUND", Message: "milestone not found"}
		}
		return err
	}
	return nil
}
