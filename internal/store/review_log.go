package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review history.
// Entries are immutable once written; there is no update or delete.
type ReviewLogStore interface {
	// Append writes a new review log entry.
	// Returns ErrInvalidEntity (wrapping the validation error) if the entry
	// fails domain validation.
	Append(ctx context.Context, log *domain.ReviewLog) error

	// ListByItem returns all entries for an item, ordered by reviewed_at
	// ascending.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error)

	// ListReviewTimes returns the reviewed_at timestamps of every entry,
	// ordered ascending. This is the input for streak computation.
	ListReviewTimes(ctx context.Context) ([]time.Time, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
