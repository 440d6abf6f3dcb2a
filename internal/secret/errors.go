package secret

import "errors"

var (
	ErrSecretUnavailable = errors.New("signing secret unavailable")
	ErrSecretNotFound    = errors.New("secret not found in store")
)
