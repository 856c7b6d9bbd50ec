package httpapi

import (
	"context"

	"github.com/mitchsmii/EllaRises/internal/platform/auth"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok && c.Email != ""
}
