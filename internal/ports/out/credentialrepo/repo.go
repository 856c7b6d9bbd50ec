package credentialrepo

import (
	"context"
	"errors"

	"github.com/mitchsmii/EllaRises/internal/domain"
)

var (
	ErrNotFound      = errors.New("credential not found")
	ErrAlreadyExists = errors.New("credential already exists")
)

// Repository stores login credentials keyed by email. Credentials are
// soft-linked to people by matching email, not a foreign key: a credential
// with no person row is a valid state.
type Repository interface {
	Create(ctx context.Context, c domain.Credential) error
	GetByEmail(ctx context.Context, email string) (domain.Credential, error)

	// UpdatePassword replaces the stored hash for an existing credential.
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}
