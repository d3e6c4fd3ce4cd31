package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the user name or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a token fails parsing or validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserDisabled is returned when the account exists but is disabled.
	ErrUserDisabled = errors.New("user is disabled")
)
