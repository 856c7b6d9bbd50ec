package personrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mitchsmii/EllaRises/internal/adapters/postgres"
	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
)

// Repo is a Postgres implementation of personrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p domain.Person) (domain.Person, error) {
	if r.pool == nil {
		return domain.Person{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO people (email, firstname, lastname, phone, city, state, birthdate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING personid
	`,
		domain.NormalizeEmail(p.Email),
		p.FirstName,
		p.LastName,
		p.Phone,
		p.City,
		p.State,
		birthdateForDB(p.Birthdate),
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return domain.Person{}, personrepo.ErrEmailConflict
		}
		return domain.Person{}, err
	}
	p.ID = domain.PersonID(id)
	p.Email = domain.NormalizeEmail(p.Email)
	return p, nil
}

func (r *Repo) Save(ctx context.Context, p domain.Person) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE people
		SET email = $2,
		    firstname = $3,
		    lastname = $4,
		    phone = $5,
		    city = $6,
		    state = $7,
		    birthdate = $8
		WHERE personid = $1
	`,
		int64(p.ID),
		domain.NormalizeEmail(p.Email),
		p.FirstName,
		p.LastName,
		p.Phone,
		p.City,
		p.State,
		birthdateForDB(p.Birthdate),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return personrepo.ErrEmailConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return personrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PersonID) (domain.Person, error) {
	if r.pool == nil {
		return domain.Person{}, errors.New("nil postgres pool")
	}
	return scanPerson(r.pool.QueryRow(ctx, `
		SELECT personid, email, firstname, lastname, phone, city, state, birthdate
		FROM people
		WHERE personid = $1
	`, int64(id)))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Person, error) {
	if r.pool == nil {
		return domain.Person{}, errors.New("nil postgres pool")
	}
	return scanPerson(r.pool.QueryRow(ctx, `
		SELECT personid, email, firstname, lastname, phone, city, state, birthdate
		FROM people
		WHERE email = $1
	`, domain.NormalizeEmail(email)))
}

func (r *Repo) List(ctx context.Context) ([]domain.Person, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT personid, email, firstname, lastname, phone, city, state, birthdate
		FROM people
		ORDER BY lastname ASC, firstname ASC, personid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Person, 0)
	for rows.Next() {
		p, err := scanPersonRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.PersonID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM people WHERE personid = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return personrepo.ErrNotFound
	}
	return nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row pgx.Row) (domain.Person, error) {
	p, err := scanPersonRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Person{}, personrepo.ErrNotFound
		}
		return domain.Person{}, err
	}
	return p, nil
}

func scanPersonRow(row rowScanner) (domain.Person, error) {
	var (
		id        int64
		email     string
		first     string
		last      string
		phone     *string
		city      *string
		state     *string
		birthdate pgtype.Date
	)
	if err := row.Scan(&id, &email, &first, &last, &phone, &city, &state, &birthdate); err != nil {
		return domain.Person{}, err
	}
	return domain.Person{
		ID:        domain.PersonID(id),
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		City:      city,
		State:     state,
		Birthdate: dateToTimePtr(birthdate),
	}, nil
}

func birthdateForDB(t *time.Time) pgtype.Date {
	var d pgtype.Date
	if t == nil {
		d.Valid = false
		return d
	}
	tt := t.UTC()
	d.Time = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	d.Valid = true
	return d
}

func dateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}
