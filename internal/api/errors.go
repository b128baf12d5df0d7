package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/service/review"
	"github.com/incrementum/incrementum-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, review.ErrItemSuspended),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrInvalidDays),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrItemQuestionEmpty),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, review.ErrNoItemsDue):
		return http.StatusNoContent

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Learning item not found"

	case errors.Is(err, review.ErrItemSuspended):
		return "Learning item is suspended"

	case errors.Is(err, store.ErrDuplicate):
		return "Learning item already exists"

	case errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidRating):
		return "Rating must be again, hard, good, or easy"

	case errors.Is(err, review.ErrInvalidDays):
		return "Postpone days must be at least 1"

	case errors.Is(err, domain.ErrItemQuestionEmpty):
		return "Question is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid item data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError converts a validator error into a user-friendly
// message naming only the offending field and rule, never the raw value.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return fmt.Sprintf(
			"Validation failed on field '%s' (rule: %s)",
			strings.ToLower(fieldErr.Field()),
			fieldErr.Tag(),
		)
	}
	return "Validation error"
}
