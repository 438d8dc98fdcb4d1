package services

import "errors"

// Typed outcomes surfaced by the services; the controllers map them to
// HTTP status codes.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
)
