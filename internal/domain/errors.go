package domain

import "errors"

// Sentinel errors shared across entities. Services wrap these with context;
// controllers unwrap them with errors.Is to pick the HTTP status.
var (
	// ErrNotFound is returned when an entity does not exist, or when its
	// existence must not be revealed to the caller.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller lacks the required role or
	// identity for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when a request is structurally valid but
	// semantically rejected.
	ErrInvalidInput = errors.New("invalid input")
)
