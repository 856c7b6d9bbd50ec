package carpoolrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitchsmii/EllaRises/internal/adapters/postgres"
	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/carpoolrepo"
)

// Repo is a Postgres implementation of carpoolrepo.Repository over the
// carpool_drivers, carpool_riders, and carpool_matches tables.
//
// CreateMatch runs in a transaction that locks the driver offer row, which
// serializes matching per driver. Two unique indexes backstop the invariants:
//
//	CREATE UNIQUE INDEX carpool_matches_pair
//	ON carpool_matches (eventdetailid, driveremail, rideremail);
//
//	CREATE UNIQUE INDEX carpool_matches_rider
//	ON carpool_matches (eventdetailid, rideremail);
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) UpsertDriver(ctx context.Context, o domain.DriverOffer) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	o.Email = domain.NormalizeEmail(o.Email)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO carpool_drivers (eventdetailid, email, name, phone, address, radius_miles, seat_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (eventdetailid, email) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    address = EXCLUDED.address,
		    radius_miles = EXCLUDED.radius_miles,
		    seat_count = EXCLUDED.seat_count
	`, int64(o.OccurrenceID), o.Email, o.Name, o.Phone, o.Address, o.RadiusMiles, o.SeatCount)
	return err
}

func (r *Repo) UpsertRider(ctx context.Context, req domain.RiderRequest) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	req.Email = domain.NormalizeEmail(req.Email)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO carpool_riders (eventdetailid, email, name, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (eventdetailid, email) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    address = EXCLUDED.address
	`, int64(req.OccurrenceID), req.Email, req.Name, req.Phone, req.Address)
	return err
}

func (r *Repo) RemoveByEmail(ctx context.Context, occurrenceID domain.OccurrenceID, email string) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	email = domain.NormalizeEmail(email)
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM carpool_matches
			WHERE eventdetailid = $1 AND (driveremail = $2 OR rideremail = $2)
		`, int64(occurrenceID), email); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM carpool_drivers WHERE eventdetailid = $1 AND email = $2
		`, int64(occurrenceID), email); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			DELETE FROM carpool_riders WHERE eventdetailid = $1 AND email = $2
		`, int64(occurrenceID), email)
		return err
	})
}

func (r *Repo) ListDrivers(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.DriverOffer, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT eventdetailid, email, name, phone, address, radius_miles, seat_count
		FROM carpool_drivers
		WHERE eventdetailid = $1
		ORDER BY email ASC
	`, int64(occurrenceID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DriverOffer, 0)
	for rows.Next() {
		var o domain.DriverOffer
		var occID int64
		if err := rows.Scan(&occID, &o.Email, &o.Name, &o.Phone, &o.Address, &o.RadiusMiles, &o.SeatCount); err != nil {
			return nil, err
		}
		o.OccurrenceID = domain.OccurrenceID(occID)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListRiders(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.RiderRequest, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT eventdetailid, email, name, phone, address
		FROM carpool_riders
		WHERE eventdetailid = $1
		ORDER BY email ASC
	`, int64(occurrenceID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RiderRequest, 0)
	for rows.Next() {
		var req domain.RiderRequest
		var occID int64
		if err := rows.Scan(&occID, &req.Email, &req.Name, &req.Phone, &req.Address); err != nil {
			return nil, err
		}
		req.OccurrenceID = domain.OccurrenceID(occID)
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *Repo) ListMatches(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.Match, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT matchid, eventdetailid, driveremail, rideremail, matched_at
		FROM carpool_matches
		WHERE eventdetailid = $1
		ORDER BY matchid ASC
	`, int64(occurrenceID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMatch validates in the fixed order the port documents. The driver
// offer row is locked so the seat count cannot be raced per driver.
func (r *Repo) CreateMatch(ctx context.Context, m domain.Match) (domain.Match, error) {
	if r.pool == nil {
		return domain.Match{}, errors.New("nil postgres pool")
	}
	m.DriverEmail = domain.NormalizeEmail(m.DriverEmail)
	m.RiderEmail = domain.NormalizeEmail(m.RiderEmail)
	out := m
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var seatCount int
		err := tx.QueryRow(ctx, `
			SELECT seat_count FROM carpool_drivers
			WHERE eventdetailid = $1 AND email = $2
			FOR UPDATE
		`, int64(m.OccurrenceID), m.DriverEmail).Scan(&seatCount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return carpoolrepo.ErrDriverNotFound
			}
			return err
		}

		var riderExists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM carpool_riders
				WHERE eventdetailid = $1 AND email = $2
			)
		`, int64(m.OccurrenceID), m.RiderEmail).Scan(&riderExists)
		if err != nil {
			return err
		}
		if !riderExists {
			return carpoolrepo.ErrRiderNotFound
		}

		var dup bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM carpool_matches
				WHERE eventdetailid = $1 AND driveremail = $2 AND rideremail = $3
			)
		`, int64(m.OccurrenceID), m.DriverEmail, m.RiderEmail).Scan(&dup)
		if err != nil {
			return err
		}
		if dup {
			return carpoolrepo.ErrDuplicateMatch
		}

		var matched int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM carpool_matches
			WHERE eventdetailid = $1 AND driveremail = $2
		`, int64(m.OccurrenceID), m.DriverEmail).Scan(&matched)
		if err != nil {
			return err
		}
		if matched >= seatCount {
			return carpoolrepo.ErrNoSeats
		}

		var riderTaken bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM carpool_matches
				WHERE eventdetailid = $1 AND rideremail = $2
			)
		`, int64(m.OccurrenceID), m.RiderEmail).Scan(&riderTaken)
		if err != nil {
			return err
		}
		if riderTaken {
			return carpoolrepo.ErrRiderAlreadyMatched
		}

		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO carpool_matches (eventdetailid, driveremail, rideremail, matched_at)
			VALUES ($1, $2, $3, $4)
			RETURNING matchid
		`, int64(m.OccurrenceID), m.DriverEmail, m.RiderEmail, m.MatchedAt.UTC()).Scan(&id)
		if err != nil {
			if pgErr, ok := postgres.AsPgError(err); ok && pgErr.Code == postgres.UniqueViolationCode {
				return carpoolrepo.ErrRiderAlreadyMatched
			}
			return err
		}
		out.ID = domain.MatchID(id)
		return nil
	})
	if err != nil {
		return domain.Match{}, err
	}
	return out, nil
}

func scanMatch(row pgx.Row) (domain.Match, error) {
	var (
		id        int64
		occID     int64
		driver    string
		rider     string
		matchedAt time.Time
	)
	if err := row.Scan(&id, &occID, &driver, &rider, &matchedAt); err != nil {
		return domain.Match{}, err
	}
	return domain.Match{
		ID:           domain.MatchID(id),
		OccurrenceID: domain.OccurrenceID(occID),
		DriverEmail:  driver,
		RiderEmail:   rider,
		MatchedAt:    matchedAt.UTC(),
	}, nil
}
