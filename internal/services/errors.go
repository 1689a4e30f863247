package services

import "errors"

var (
	// ErrInvalid marks malformed or semantically invalid input.
	ErrInvalid = errors.New("invalid input")

	// ErrUnauthorized marks a failed or missing credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an authenticated caller acting outside their rights.
	ErrForbidden = errors.New("forbidden")
)
