package donations

import (
	"context"
	"net/mail"

	"github.com/segmentio/ksuid"

	"github.com/mitchsmii/EllaRises/internal/domain"
	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/donationrepo"
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

// Service records gifts. The donor profile upsert and the donation insert
// are one atomic unit at the repository.
type Service struct {
	repo donationrepo.Repository
	clk  clockport.Clock

	newReceiptNumber func() string
}

func NewService(repo donationrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newReceiptNumber: func() string {
			return ksuid.New().String()
		},
	}
}

// SetReceiptNumberForTest overrides receipt generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetReceiptNumberForTest(fn func() string) {
	if fn != nil {
		s.newReceiptNumber = fn
	}
}

type RecordInput struct {
	Email       string
	FirstName   string
	LastName    string
	Phone       *string
	City        *string
	State       *string
	AmountCents int64
}

func (s *Service) Record(ctx context.Context, in RecordInput) (domain.Donation, error) {
	email := domain.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Donation{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email"}
	}
	if in.AmountCents <= 0 {
		return domain.Donation{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "donation amount must be positive"}
	}
	first := domain.NormalizeHumanName(in.FirstName)
	last := domain.NormalizeHumanName(in.LastName)
	if first == "" || last == "" {
		return domain.Donation{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "first and last name are required"}
	}

	return s.repo.RecordWithDonor(ctx,
		domain.Person{
			Email:     email,
			FirstName: first,
			LastName:  last,
			Phone:     in.Phone,
			City:      in.City,
			State:     in.State,
		},
		domain.Donation{
			AmountCents:   in.AmountCents,
			DonatedAt:     s.clk.Now(),
			ReceiptNumber: s.newReceiptNumber(),
		},
	)
}

func (s *Service) ListByPerson(ctx context.Context, personID domain.PersonID) ([]domain.Donation, error) {
	return s.repo.ListByPerson(ctx, personID)
}
