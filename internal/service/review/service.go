// Package review provides the application service for spaced-repetition
// reviews: queue construction, rating submission with transactional
// compute-then-commit semantics, interval preview, and streak reporting.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
)

// StreakInfo summarizes review-day streaks derived from the review log.
type StreakInfo struct {
	Current     int `json:"current_streak"`
	Longest     int `json:"longest_streak"`
	ActiveDays  int `json:"active_days"`
	TotalReview int `json:"total_reviews"`
}

// CreateItemRequest carries the fields for creating a new learning item.
type CreateItemRequest struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Priority float64 `json:"priority"`
}

// ReviewService provides the scheduling operations exposed by the API.
type ReviewService interface {
	// GetQueue returns the current review queue: due items ordered
	// overdue-first with new items interleaved, per the configured caps.
	// An empty queue is not an error.
	GetQueue(ctx context.Context) ([]*domain.LearningItem, error)

	// SubmitReview processes a rating for an item and commits the new
	// schedule. The item is locked, the outcome computed, and the item
	// update plus review-log append happen in one transaction; on any
	// failure nothing is persisted.
	//
	// Returns ErrItemNotFound if the item does not exist, ErrItemSuspended
	// if it is suspended, and ErrInvalidRating for ratings outside 1-4.
	SubmitReview(ctx context.Context, itemID uuid.UUID, rating domain.Rating) (*srs.Outcome, error)

	// Preview computes the projected outcome for every rating without
	// persisting anything. Returns ErrItemNotFound if the item does not
	// exist.
	Preview(ctx context.Context, itemID uuid.UUID) (*srs.Preview, error)

	// Postpone pushes an item's due date forward by the given number of
	// days (minimum one) without touching its memory state.
	Postpone(ctx context.Context, itemID uuid.UUID, days int) (*domain.LearningItem, error)

	// SetSuspended toggles an item's suspension. Suspended items never
	// appear in queues and cannot be reviewed.
	SetSuspended(ctx context.Context, itemID uuid.UUID, suspended bool) (*domain.LearningItem, error)

	// GetStreak derives streak statistics from the full review history.
	GetStreak(ctx context.Context) (*StreakInfo, error)

	// CreateItem creates a new learning item in the New state.
	CreateItem(ctx context.Context, req CreateItemRequest) (*domain.LearningItem, error)

	// GetItem retrieves a single item by ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetItem(ctx context.Context, itemID uuid.UUID) (*domain.LearningItem, error)

	// DeleteItem removes an item and, via cascade, its review log entries.
	// Returns ErrItemNotFound if the item does not exist.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// GetHistory returns the item's review log entries, oldest first.
	// Returns ErrItemNotFound if the item does not exist.
	GetHistory(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error)
}

// Common error types for ReviewService
var (
	// ErrItemNotFound indicates that the learning item does not exist.
	ErrItemNotFound = errors.New("learning item not found")

	// ErrItemSuspended indicates an attempt to review a suspended item.
	ErrItemSuspended = errors.New("learning item is suspended")

	// ErrNoItemsDue indicates that no items are due for review.
	ErrNoItemsDue = errors.New("no items due for review")

	// ErrInvalidRating indicates a rating outside the 1-4 range.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidDays indicates a non-positive postpone duration.
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between error types using
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// clock abstracts time.Now for deterministic tests.
type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
