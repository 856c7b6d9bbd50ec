package surveyresponserepo

import (
	"context"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repository stores post-event survey submissions.
type Repository interface {
	Create(ctx context.Context, r domain.SurveyResponse) (domain.SurveyResponse, error)
	ListByOccurrence(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.SurveyResponse, error)
}
