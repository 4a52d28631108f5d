package service

import "errors"

// Business-rule failures are first-class outcomes callers branch on with
// errors.Is. Storage failures are wrapped and propagate untyped; the HTTP
// boundary translates those into a 500.
var (
	ErrUnauthorized        = errors.New("no resolved identity")
	ErrNotFound            = errors.New("resource not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrConflict            = errors.New("conflicting state")
	ErrValidation          = errors.New("validation failed")
)
