package donationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repo is a Postgres implementation of donationrepo.Repository over the
// people and donations tables.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// RecordWithDonor upserts the donor by email and inserts the donation inside
// one transaction. The donor row is locked for the update path so repeat
// donations for the same email serialize cleanly.
func (r *Repo) RecordWithDonor(ctx context.Context, donor domain.Person, d domain.Donation) (domain.Donation, error) {
	if r.pool == nil {
		return domain.Donation{}, errors.New("nil postgres pool")
	}
	out := d
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		email := domain.NormalizeEmail(donor.Email)

		var personID int64
		err := tx.QueryRow(ctx, `
			SELECT personid FROM people WHERE email = $1 FOR UPDATE
		`, email).Scan(&personID)
		switch {
		case err == nil:
			// Refresh contact fields on repeat donors.
			_, err = tx.Exec(ctx, `
				UPDATE people
				SET firstname = $2,
				    lastname = $3,
				    phone = COALESCE($4, phone),
				    city = COALESCE($5, city),
				    state = COALESCE($6, state)
				WHERE personid = $1
			`, personID, donor.FirstName, donor.LastName, donor.Phone, donor.City, donor.State)
			if err != nil {
				return err
			}
		case errors.Is(err, pgx.ErrNoRows):
			err = tx.QueryRow(ctx, `
				INSERT INTO people (email, firstname, lastname, phone, city, state)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING personid
			`, email, donor.FirstName, donor.LastName, donor.Phone, donor.City, donor.State).Scan(&personID)
			if err != nil {
				return err
			}
		default:
			return err
		}

		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO donations (personid, amount_cents, donated_at, receipt_number)
			VALUES ($1, $2, $3, $4)
			RETURNING donationid
		`, personID, d.AmountCents, d.DonatedAt.UTC(), d.ReceiptNumber).Scan(&id)
		if err != nil {
			return err
		}
		out.ID = domain.DonationID(id)
		out.PersonID = domain.PersonID(personID)
		return nil
	})
	if err != nil {
		return domain.Donation{}, err
	}
	return out, nil
}

func (r *Repo) ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Donation, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT donationid, personid, amount_cents, donated_at, receipt_number
		FROM donations
		WHERE personid = $1
		ORDER BY donationid ASC
	`, int64(personID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Donation, 0)
	for rows.Next() {
		var (
			id       int64
			pid      int64
			amount   int64
			donated  time.Time
			receipt  string
			donation domain.Donation
		)
		if err := rows.Scan(&id, &pid, &amount, &donated, &receipt); err != nil {
			return nil, err
		}
		donation = domain.Donation{
			ID:            domain.DonationID(id),
			PersonID:      domain.PersonID(pid),
			AmountCents:   amount,
			DonatedAt:     donated.UTC(),
			ReceiptNumber: receipt,
		}
		out = append(out, donation)
	}
	return out, rows.Err()
}
