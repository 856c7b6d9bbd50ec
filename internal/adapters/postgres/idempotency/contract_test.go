package idempotency

import (
	"testing"

	"github.com/mitchsmii/EllaRises/internal/adapters/contracttest"
	"github.com/mitchsmii/EllaRises/internal/adapters/postgres/testutil"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (contracttest.Env, contracttest.CleanupFunc) {
		t.Helper()
		return contracttest.Env{Idem: NewStore(pool)}, nil
	})
}
