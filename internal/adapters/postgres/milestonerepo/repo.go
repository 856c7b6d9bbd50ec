package milestonerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/milestonerepo"
)

// Repo is a Postgres implementation of milestonerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, m domain.Milestone) (domain.Milestone, error) {
	if r.pool == nil {
		return domain.Milestone{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO milestones (personid, title, category, achieved_at)
		VALUES ($1, $2, $3, $4)
		RETURNING milestoneid
	`, int64(m.PersonID), m.Title, m.Category, m.AchievedAt.UTC())
	var id int64
	if err := row.Scan(&id); err != nil {
		return domain.Milestone{}, err
	}
	m.ID = domain.MilestoneID(id)
	return m, nil
}

func (r *Repo) ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Milestone, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT milestoneid, personid, title, category, achieved_at
		FROM milestones
		WHERE personid = $1
		ORDER BY achieved_at ASC, milestoneid ASC
	`, int64(personID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Milestone, 0)
	for rows.Next() {
		var (
			id       int64
			pid      int64
			title    string
			category string
			achieved time.Time
		)
		if err := rows.Scan(&id, &pid, &title, &category, &achieved); err != nil {
			return nil, err
		}
		out = append(out, domain.Milestone{
			ID:         domain.MilestoneID(id),
			PersonID:   domain.PersonID(pid),
			Title:      title,
			Category:   category,
			AchievedAt: achieved.UTC(),
		})
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.MilestoneID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM milestones WHERE milestoneid = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return milestonerepo.ErrNotFound
	}
	return nil
}
