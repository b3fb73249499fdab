package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these onto HTTP status codes and machine-readable error codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// ErrInvalidInput is returned when a request is structurally valid but
// semantically rejected (e.g. adding the event owner as a collaborator).
var ErrInvalidInput = errors.New("invalid input")
