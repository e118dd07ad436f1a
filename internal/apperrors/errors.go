package apperrors

import (
	"errors"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
	ErrUserNotFound  = errors.New("user not found")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session is expired")
	ErrSessionRevoked  = errors.New("session is revoked")

	// Covers both a missing memo and a memo owned by someone else:
	// the two cases must be indistinguishable to the caller
	ErrMemoNotFound = errors.New("memo not found")
)
