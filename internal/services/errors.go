package services

import "errors"

// Error kinds. Handlers map them onto HTTP status codes.
var (
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrNotConfigured = errors.New("not configured")
	ErrUpstream      = errors.New("upstream failure")
)

// Error is a domain error with a client-safe message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func validationError(msg string) error   { return newError(ErrValidation, msg) }
func unauthorizedError(msg string) error { return newError(ErrUnauthorized, msg) }
func forbiddenError(msg string) error    { return newError(ErrForbidden, msg) }
func notFoundError(msg string) error     { return newError(ErrNotFound, msg) }
func conflictError(msg string) error     { return newError(ErrConflict, msg) }
func notConfiguredError(msg string) error {
	return newError(ErrNotConfigured, msg)
}
func upstreamError(msg string) error { return newError(ErrUpstream, msg) }
