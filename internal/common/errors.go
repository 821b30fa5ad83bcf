// Package common defines sentinel errors and small helpers shared by the
// server, the HTTP layer and the client. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is the root of every gate rejection.
	ErrAuthentication = errors.New("authentication failed")

	ErrTokenMissing = fmt.Errorf("%w: missing token", ErrAuthentication)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrAuthentication)
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrAuthentication)

	// ErrDecryption is returned when a ciphertext cannot be decoded or
	// decrypted with the server key.
	ErrDecryption = errors.New("decryption failed")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Service-level errors.
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// AuthorizationHeader carries the session token as "Bearer <token>".
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeader.
const BearerPrefix = "Bearer "
