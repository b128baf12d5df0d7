package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/store"
)

// ItemRepository defines the interface for repositories that can provide
// learning item data and support transactions.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.LearningItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	Update(ctx context.Context, item *domain.LearningItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListReviewable(ctx context.Context, now time.Time) ([]*domain.LearningItem, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// LogRepository defines the interface for repositories that can provide
// review log data and support transactions.
type LogRepository interface {
	Append(ctx context.Context, entry *domain.ReviewLog) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error)
	ListReviewTimes(ctx context.Context) ([]time.Time, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LogRepository
}

// NewItemRepositoryAdapter creates a new adapter that allows a
// store.LearningItemStore to be used where an ItemRepository is expected.
func NewItemRepositoryAdapter(itemStore store.LearningItemStore, db *sql.DB) ItemRepository {
	return &itemRepositoryAdapter{
		itemStore: itemStore,
		db:        db,
	}
}

type itemRepositoryAdapter struct {
	itemStore store.LearningItemStore
	db        *sql.DB
}

func (a *itemRepositoryAdapter) Create(ctx context.Context, item *domain.LearningItem) error {
	return a.itemStore.Create(ctx, item)
}

func (a *itemRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	return a.itemStore.GetByID(ctx, id)
}

func (a *itemRepositoryAdapter) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	return a.itemStore.GetByIDForUpdate(ctx, id)
}

func (a *itemRepositoryAdapter) Update(ctx context.Context, item *domain.LearningItem) error {
	return a.itemStore.Update(ctx, item)
}

func (a *itemRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.itemStore.Delete(ctx, id)
}

func (a *itemRepositoryAdapter) ListReviewable(ctx context.Context, now time.Time) ([]*domain.LearningItem, error) {
	return a.itemStore.ListReviewable(ctx, now)
}

func (a *itemRepositoryAdapter) WithTx(tx *sql.Tx) ItemRepository {
	return &itemRepositoryAdapter{
		itemStore: a.itemStore.WithTx(tx),
		db:        a.db,
	}
}

func (a *itemRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewLogRepositoryAdapter creates a new adapter that allows a
// store.ReviewLogStore to be used where a LogRepository is expected.
func NewLogRepositoryAdapter(logStore store.ReviewLogStore) LogRepository {
	return &logRepositoryAdapter{logStore: logStore}
}

type logRepositoryAdapter struct {
	logStore store.ReviewLogStore
}

func (a *logRepositoryAdapter) Append(ctx context.Context, entry *domain.ReviewLog) error {
	return a.logStore.Append(ctx, entry)
}

func (a *logRepositoryAdapter) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error) {
	return a.logStore.ListByItem(ctx, itemID)
}

func (a *logRepositoryAdapter) ListReviewTimes(ctx context.Context) ([]time.Time, error) {
	return a.logStore.ListReviewTimes(ctx)
}

func (a *logRepositoryAdapter) WithTx(tx *sql.Tx) LogRepository {
	return &logRepositoryAdapter{logStore: a.logStore.WithTx(tx)}
}
