package token

import "errors"

var (
	ErrEmptyCredential = errors.New("no bearer credential supplied")
	ErrMalformedToken  = errors.New("token is not a valid JWT")
	ErrBadSignature    = errors.New("token signature does not verify")
	ErrExpired         = errors.New("token is expired")
)
