package credentialrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mitchsmii/EllaRises/internal/adapters/postgres"
	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/credentialrepo"
)

// Repo is a Postgres implementation of credentialrepo.Repository backed by
// the login table.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, c domain.Credential) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login (email, password, level)
		VALUES ($1, $2, $3)
	`,
		domain.NormalizeEmail(c.Email),
		c.Password,
		string(c.Role),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return credentialrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	if r.pool == nil {
		return domain.Credential{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT email, password, level
		FROM login
		WHERE email = $1
	`, domain.NormalizeEmail(email))

	var c domain.Credential
	var level string
	if err := row.Scan(&c.Email, &c.Password, &level); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Credential{}, credentialrepo.ErrNotFound
		}
		return domain.Credential{}, err
	}
	// Legacy rows may carry level='admin'; normalization happens at login.
	c.Role = domain.Role(level)
	return c, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE login SET password = $2 WHERE email = $1
	`, domain.NormalizeEmail(email), passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return credentialrepo.ErrNotFound
	}
	return nil
}
