// Package gateway is the authorization front of the API: it extracts the
// bearer credential, runs strict token validation, checks the role policy for
// the route's operation and only then lets the request reach a handler.
package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mehmetcc/shelfguard/internal/httpx"
	"github.com/mehmetcc/shelfguard/internal/policy"
	"github.com/mehmetcc/shelfguard/internal/token"
	"go.uber.org/zap"
)

type Gateway struct {
	logger *zap.Logger
	tokens token.TokenService
}

func New(tokens token.TokenService, logger *zap.Logger) *Gateway {
	return &Gateway{
		logger: logger,
		tokens: tokens,
	}
}

// Require authenticates and authorizes the request for op. Validation and
// policy failures are terminal: the caller sees a generic 401 or 403, the
// reason stays in the logs.
func (g *Gateway) Require(op policy.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := extractBearer(r)

			claims, err := g.tokens.Validate(r.Context(), cred)
			if err != nil {
				g.logRejection(cred, op, err)
				httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
					Code:    httpx.ErrUnauthorized,
					Message: "missing or invalid credentials",
				})
				return
			}

			if !policy.IsAllowed(claims.Role, op) {
				g.logger.Info("policy denied",
					zap.String("subject", claims.Sub),
					zap.String("role", string(claims.Role)),
					zap.String("operation", string(op)),
				)
				httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[any]{
					Code:    httpx.ErrForbidden,
					Message: "operation not permitted",
				})
				return
			}

			g.logger.Debug("authorized",
				zap.String("subject", claims.Sub),
				zap.String("role", string(claims.Role)),
				zap.String("operation", string(op)),
			)
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	cred, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(cred)
}

// logRejection records why a credential was refused. The unverified subject
// from Peek is audit context only; nothing here feeds a decision.
func (g *Gateway) logRejection(cred string, op policy.Operation, err error) {
	fields := []zap.Field{
		zap.String("operation", string(op)),
		zap.Error(err),
	}
	if !errors.Is(err, token.ErrEmptyCredential) {
		if peeked, perr := g.tokens.Peek(cred); perr == nil {
			fields = append(fields, zap.String("claimed_subject", peeked.Sub))
		}
	}
	g.logger.Warn("credential rejected", fields...)
}
