package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
)

// LearningItemStore defines the interface for learning item persistence.
type LearningItemStore interface {
	// Create saves a new learning item to the store.
	// Returns ErrInvalidEntity (wrapping the validation error) if the item
	// fails domain validation and ErrDuplicate if the ID already exists.
	Create(ctx context.Context, item *domain.LearningItem) error

	// GetByID retrieves a learning item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)

	// GetByIDForUpdate retrieves a learning item and acquires a row lock
	// on it (SELECT ... FOR UPDATE). Must be called within a transaction;
	// the lock is held until the transaction commits or rolls back.
	// Returns ErrItemNotFound if the item does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)

	// Update saves changes to an existing learning item.
	// The item is validated before writing. Returns ErrItemNotFound if the
	// item does not exist.
	Update(ctx context.Context, item *domain.LearningItem) error

	// Delete removes a learning item by its ID. Review log entries for the
	// item are removed by the schema's ON DELETE CASCADE constraint.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListReviewable returns all items that could enter a review queue at
	// now: unsuspended items that are due, plus items never reviewed.
	// Queue ordering and capping is the caller's concern.
	ListReviewable(ctx context.Context, now time.Time) ([]*domain.LearningItem, error)

	// WithTx returns a new LearningItemStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via RunInTransaction.
	WithTx(tx *sql.Tx) LearningItemStore
}
