package registrationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitchsmii/EllaRises/internal/adapters/postgres"
	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/registrationrepo"
)

// Repo is a Postgres implementation of registrationrepo.Repository over the
// registration table.
//
// The per-pair invariant is backstopped by a partial unique index:
//
//	CREATE UNIQUE INDEX registration_active_pair
//	ON registration (personid, eventdetailid)
//	WHERE registrationstatus = 'active';
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// CreateActive inserts inside a transaction that locks the occurrence row,
// so the duplicate and capacity checks are serialized per occurrence. The
// partial unique index catches anything that slips past under concurrent
// schemas without the lock.
func (r *Repo) CreateActive(ctx context.Context, reg domain.Registration, capacity *int) (domain.Registration, error) {
	if r.pool == nil {
		return domain.Registration{}, errors.New("nil postgres pool")
	}
	out := reg
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Serialize per occurrence.
		var occID int64
		err := tx.QueryRow(ctx, `
			SELECT eventdetailid FROM event_details
			WHERE eventdetailid = $1
			FOR UPDATE
		`, int64(reg.OccurrenceID)).Scan(&occID)
		if err != nil {
			return err
		}

		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM registration
				WHERE personid = $1 AND eventdetailid = $2 AND registrationstatus = 'active'
			)
		`, int64(reg.PersonID), int64(reg.OccurrenceID)).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return registrationrepo.ErrDuplicateActive
		}

		if capacity != nil {
			var active int
			err = tx.QueryRow(ctx, `
				SELECT COUNT(*) FROM registration
				WHERE eventdetailid = $1 AND registrationstatus = 'active'
			`, int64(reg.OccurrenceID)).Scan(&active)
			if err != nil {
				return err
			}
			if active >= *capacity {
				return registrationrepo.ErrCapacityExceeded
			}
		}

		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO registration (personid, eventdetailid, registrationstatus, registrationattendedflag, registrationcreateddate)
			VALUES ($1, $2, 'active', $3, $4)
			RETURNING registrationid
		`, int64(reg.PersonID), int64(reg.OccurrenceID), reg.Attended, reg.CreatedAt.UTC()).Scan(&id)
		if err != nil {
			if pgErr, ok := postgres.AsPgError(err); ok && pgErr.Code == postgres.UniqueViolationCode {
				return registrationrepo.ErrDuplicateActive
			}
			return err
		}
		out.ID = domain.RegistrationID(id)
		out.Status = domain.RegistrationActive
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}
	return out, nil
}

func (r *Repo) Cancel(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE registration
		SET registrationstatus = 'cancelled'
		WHERE personid = $1 AND eventdetailid = $2 AND registrationstatus = 'active'
	`, int64(personID), int64(occurrenceID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return registrationrepo.ErrNoActive
	}
	return nil
}

func (r *Repo) GetActive(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID) (domain.Registration, error) {
	if r.pool == nil {
		return domain.Registration{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT registrationid, personid, eventdetailid, registrationstatus, registrationattendedflag, registrationcreateddate
		FROM registration
		WHERE personid = $1 AND eventdetailid = $2 AND registrationstatus = 'active'
	`, int64(personID), int64(occurrenceID))
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Registration{}, registrationrepo.ErrNoActive
		}
		return domain.Registration{}, err
	}
	return reg, nil
}

func (r *Repo) CountActive(ctx context.Context, occurrenceID domain.OccurrenceID) (int, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM registration
		WHERE eventdetailid = $1 AND registrationstatus = 'active'
	`, int64(occurrenceID)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repo) SetAttended(ctx context.Context, personID domain.PersonID, occurrenceID domain.OccurrenceID, attended bool) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE registration
		SET registrationattendedflag = $3
		WHERE personid = $1 AND eventdetailid = $2 AND registrationstatus = 'active'
	`, int64(personID), int64(occurrenceID), attended)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return registrationrepo.ErrNoActive
	}
	return nil
}

func (r *Repo) ListRecipients(ctx context.Context, occurrenceID domain.OccurrenceID) ([]registrationrepo.Recipient, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT
			p.personid,
			p.email,
			p.firstname,
			p.lastname,
			COALESCE(r.registrationattendedflag, false)
		FROM registration r
		INNER JOIN people p ON r.personid = p.personid
		WHERE r.eventdetailid = $1
			AND r.registrationstatus != 'cancelled'
			AND p.email IS NOT NULL
			AND p.email != ''
	`, int64(occurrenceID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]registrationrepo.Recipient, 0)
	for rows.Next() {
		var rec registrationrepo.Recipient
		var personID int64
		if err := rows.Scan(&personID, &rec.Email, &rec.FirstName, &rec.LastName, &rec.Attended); err != nil {
			return nil, err
		}
		rec.PersonID = domain.PersonID(personID)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRegistration(row pgx.Row) (domain.Registration, error) {
	var (
		id        int64
		personID  int64
		occID     int64
		status    string
		attended  bool
		createdAt time.Time
	)
	if err := row.Scan(&id, &personID, &occID, &status, &attended, &createdAt); err != nil {
		return domain.Registration{}, err
	}
	return domain.Registration{
		ID:           domain.RegistrationID(id),
		PersonID:     domain.PersonID(personID),
		OccurrenceID: domain.OccurrenceID(occID),
		Status:       domain.RegistrationStatus(status),
		Attended:     attended,
		CreatedAt:    createdAt.UTC(),
	}, nil
}
