package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/shelfguard/internal/config"
	"github.com/mehmetcc/shelfguard/internal/policy"
	"github.com/mehmetcc/shelfguard/internal/secret"
	"github.com/mehmetcc/shelfguard/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const signingSecret = "gateway-test-secret"

func newGateway(t *testing.T) *Gateway {
	t.Helper()
	secrets := secret.NewProvider(&config.SecretConfig{InlineSecret: signingSecret}, nil, zap.NewNop())
	return New(token.NewTokenService(zap.NewNop(), secrets), zap.NewNop())
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "carol",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tkn.SignedString([]byte(signingSecret))
	require.NoError(t, err)
	return signed
}

func TestRequire_AttachesClaims(t *testing.T) {
	g := newGateway(t)
	var seen *token.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "admin"))
	rec := httptest.NewRecorder()
	g.Require(policy.OpDelete)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "carol", seen.Sub)
	assert.Equal(t, policy.RoleAdmin, seen.Role)
}

func TestRequire_NonBearerSchemeRejected(t *testing.T) {
	g := newGateway(t)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	g.Require(policy.OpReadList)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequire_DenyStopsPipeline(t *testing.T) {
	g := newGateway(t)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user"))
	rec := httptest.NewRecorder()
	g.Require(policy.OpCreate)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestClaimsFrom_NilWithoutGateway(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, ClaimsFrom(req.Context()))
}
