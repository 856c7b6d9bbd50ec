package credentialrepo

import (
	"context"
	"sync"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/credentialrepo"
)

// Repo is an in-memory implementation of credentialrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Credential
}

func NewRepo() *Repo {
	return &Repo{byEmail: make(map[string]domain.Credential)}
}

func (r *Repo) Create(ctx context.Context, c domain.Credential) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	email := domain.NormalizeEmail(c.Email)
	if _, ok := r.byEmail[email]; ok {
		return credentialrepo.ErrAlreadyExists
	}
	c.Email = email
	r.byEmail[email] = c
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.Credential{}, credentialrepo.ErrNotFound
	}
	return c, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeEmail(email)
	c, ok := r.byEmail[key]
	if !ok {
		return credentialrepo.ErrNotFound
	}
	c.Password = passwordHash
	r.byEmail[key] = c
	return nil
}
