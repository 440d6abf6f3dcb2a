package token

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/shelfguard/internal/secret"
	"go.uber.org/zap"
)

type TokenService interface {
	// Validate is the strict path: full HS256 signature verification and
	// expiry enforcement before any claim is trusted. Every authorization
	// decision must go through here.
	Validate(ctx context.Context, tokenString string) (*Claims, error)

	// Peek decodes claims WITHOUT verifying the signature. The result is
	// forgeable and must only ever feed logs, never an allow/deny decision.
	Peek(tokenString string) (*Claims, error)
}

type tokenService struct {
	logger     *zap.Logger
	secrets    secret.Provider
	signingAlg jwt.SigningMethod
}

func NewTokenService(logger *zap.Logger, secrets secret.Provider) TokenService {
	return &tokenService{
		logger:     logger,
		secrets:    secrets,
		signingAlg: jwt.SigningMethodHS256,
	}
}

func (s *tokenService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmptyCredential
	}

	key, err := s.secrets.GetSecret(ctx)
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.signingAlg.Alg()}),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	tkn, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			s.logger.Debug("token rejected", zap.Error(err))
			return nil, ErrMalformedToken
		}
	}
	if !tkn.Valid {
		return nil, ErrBadSignature
	}

	claims.normalize()
	return &claims, nil
}

func (s *tokenService) Peek(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmptyCredential
	}

	var claims Claims
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims)
	if err != nil {
		return nil, ErrMalformedToken
	}

	claims.normalize()
	return &claims, nil
}
