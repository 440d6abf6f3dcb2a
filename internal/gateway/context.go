package gateway

import (
	"context"

	"github.com/mehmetcc/shelfguard/internal/token"
)

type ctxKey int

const claimsKey ctxKey = iota

func withClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the validated claims the gateway attached to the request
// context. It is nil on any request that did not pass through Require.
func ClaimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsKey).(*token.Claims)
	return claims
}
