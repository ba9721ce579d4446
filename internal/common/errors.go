// Package common defines shared constants and sentinel errors used across
// the server, the CLI and their tests. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorValidation       = errors.New("validation error")
	ErrorForbidden        = errors.New("forbidden")
	ErrorStoreUnavailable = errors.New("identity store unavailable")

	// Credential verification errors.
	ErrorInvalidCredential = errors.New("invalid credential")

	// Authentication gate errors.
	ErrTokenMissing      = errors.New("token missing")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenRevoked      = errors.New("token revoked")
	ErrIdentityNotFound  = errors.New("identity not found")

	// Configuration errors.
	ErrMissingSecret = errors.New("signing secret is not configured")
)
