package donationrepo

import (
	"context"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

// Repository records gifts.
//
// RecordWithDonor is all-or-nothing: the donor profile insert-or-update (by
// email) and the donation insert happen in one storage transaction.
type Repository interface {
	RecordWithDonor(ctx context.Context, donor domain.Person, d domain.Donation) (domain.Donation, error)

	ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Donation, error)
}
