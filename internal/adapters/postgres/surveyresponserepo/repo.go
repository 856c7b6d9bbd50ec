package surveyresponserepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repo is a Postgres implementation of surveyresponserepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, resp domain.SurveyResponse) (domain.SurveyResponse, error) {
	if r.pool == nil {
		return domain.SurveyResponse{}, errors.New("nil postgres pool")
	}
	var personID *int64
	if resp.PersonID != nil {
		v := int64(*resp.PersonID)
		personID = &v
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO survey_responses (eventdetailid, personid, rating, comments, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING surveyresponseid
	`, int64(resp.OccurrenceID), personID, resp.Rating, resp.Comments, resp.SubmittedAt.UTC())
	var id int64
	if err := row.Scan(&id); err != nil {
		return domain.SurveyResponse{}, err
	}
	resp.ID = domain.SurveyResponseID(id)
	return resp, nil
}

func (r *Repo) ListByOccurrence(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.SurveyResponse, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT surveyresponseid, eventdetailid, personid, rating, comments, submitted_at
		FROM survey_responses
		WHERE eventdetailid = $1
		ORDER BY surveyresponseid ASC
	`, int64(occurrenceID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SurveyResponse, 0)
	for rows.Next() {
		var (
			id        int64
			occID     int64
			personID  *int64
			rating    int
			comments  string
			submitted time.Time
		)
		if err := rows.Scan(&id, &occID, &personID, &rating, &comments, &submitted); err != nil {
			return nil, err
		}
		resp := domain.SurveyResponse{
			ID:           domain.SurveyResponseID(id),
			OccurrenceID: domain.OccurrenceID(occID),
			Rating:       rating,
			Comments:     comments,
			SubmittedAt:  submitted.UTC(),
		}
		if personID != nil {
			pid := domain.PersonID(*personID)
			resp.PersonID = &pid
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}
