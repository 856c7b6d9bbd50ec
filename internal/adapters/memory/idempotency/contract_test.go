package idempotency

import (
	"testing"

	"github.com/mitchsmii/EllaRises/internal/adapters/contracttest"
)

func TestContract_IdempotencyStore(t *testing.T) {
	contracttest.RunIdempotencyStore(t, func(t *testing.T) (contracttest.Env, contracttest.CleanupFunc) {
		t.Helper()
		return contracttest.Env{Idem: NewStore()}, nil
	})
}
