package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRating is returned when a review rating is outside 1-4.
	ErrInvalidRating = errors.New("invalid review rating")

	// ErrInvalidItemState is returned when an item state is not one of the
	// recognized lifecycle states.
	ErrInvalidItemState = errors.New("invalid item state")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)
