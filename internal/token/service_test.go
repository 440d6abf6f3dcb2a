package token

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/shelfguard/internal/config"
	"github.com/mehmetcc/shelfguard/internal/policy"
	"github.com/mehmetcc/shelfguard/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "unit-test-signing-secret"

func newService(t *testing.T, signingSecret string) TokenService {
	t.Helper()
	secrets := secret.NewProvider(&config.SecretConfig{InlineSecret: signingSecret}, nil, zap.NewNop())
	return NewTokenService(zap.NewNop(), secrets)
}

func signToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestValidate_CorrectSecretFutureExpiry(t *testing.T) {
	svc := newService(t, testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "alice",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := svc.Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Sub)
	assert.Equal(t, policy.RoleAdmin, claims.Role)
}

func TestValidate_WrongSecretIsBadSignature(t *testing.T) {
	svc := newService(t, testSecret)
	raw := signToken(t, "some-other-secret", jwt.MapClaims{
		"sub":  "alice",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.Validate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := newService(t, testSecret)

	for name, exp := range map[string]int64{
		"one second past": time.Now().Add(-time.Second).Unix(),
		"exactly now":     time.Now().Unix(),
	} {
		raw := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "alice",
			"role": "admin",
			"exp":  exp,
		})
		_, err := svc.Validate(context.Background(), raw)
		assert.ErrorIs(t, err, ErrExpired, name)
	}
}

func TestValidate_EmptyCredential(t *testing.T) {
	svc := newService(t, testSecret)
	_, err := svc.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyCredential)
}

func TestValidate_MalformedToken(t *testing.T) {
	svc := newService(t, testSecret)
	for _, raw := range []string{"not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := svc.Validate(context.Background(), raw)
		assert.ErrorIs(t, err, ErrMalformedToken, raw)
	}
}

func TestValidate_MissingClaimsGetSafeDefaults(t *testing.T) {
	svc := newService(t, testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := svc.Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, UnknownSubject, claims.Sub)
	assert.Equal(t, policy.RoleUser, claims.Role)
}

func TestValidate_UnknownRoleDowngradesToUser(t *testing.T) {
	svc := newService(t, testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "mallory",
		"role": "superadmin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := svc.Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, policy.RoleUser, claims.Role)
}

func TestValidate_SecretUnavailable(t *testing.T) {
	secrets := secret.NewProvider(&config.SecretConfig{}, nil, zap.NewNop())
	svc := NewTokenService(zap.NewNop(), secrets)

	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err := svc.Validate(context.Background(), raw)
	assert.ErrorIs(t, err, secret.ErrSecretUnavailable)
}

// A forged token with a chosen payload must never pass the strict path even
// though Peek happily decodes it.
func TestPeek_DecodesWithoutTrust(t *testing.T) {
	svc := newService(t, testSecret)
	forged := signToken(t, "attacker-controlled", jwt.MapClaims{
		"sub":  "mallory",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	peeked, err := svc.Peek(forged)
	require.NoError(t, err)
	assert.Equal(t, "mallory", peeked.Sub)
	assert.Equal(t, policy.RoleAdmin, peeked.Role)

	_, err = svc.Validate(context.Background(), forged)
	assert.ErrorIs(t, err, ErrBadSignature)
}
