package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip does not exist in the backing collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing truck number, arrival before departure).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned by the auth package when a bearer token is
// missing, malformed, expired, or has been signed out.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
