package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/platform/logger"
	"github.com/incrementum/incrementum-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// PostgresLearningItemStore implements the store.LearningItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearningItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningItemStore creates a new PostgreSQL implementation of
// the LearningItemStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLearningItemStore(db store.DBTX, log *slog.Logger) *PostgresLearningItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresLearningItemStore{
		db:     db,
		logger: log.With(slog.String("component", "learning_item_store")),
	}
}

// Ensure PostgresLearningItemStore implements store.LearningItemStore
var _ store.LearningItemStore = (*PostgresLearningItemStore)(nil)

const itemColumns = `id, question, answer, state, step, interval_days, due_date,
	last_review_date, review_count, lapses, stability, difficulty, priority,
	is_suspended, created_at, updated_at`

// Create implements store.LearningItemStore.Create.
func (s *PostgresLearningItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("learning item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learning_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query, itemArgs(item)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			log.Warn("duplicate learning item",
				slog.String("item_id", item.ID.String()))
			return fmt.Errorf("%w: learning item %s", store.ErrDuplicate, item.ID)
		}
		log.Error("failed to create learning item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	log.Info("learning item created successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("state", item.State.String()))
	return nil
}

// GetByID implements store.LearningItemStore.GetByID.
func (s *PostgresLearningItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	return s.getByID(ctx, id, false)
}

// GetByIDForUpdate implements store.LearningItemStore.GetByIDForUpdate.
// The row lock is only meaningful when s wraps a transaction.
func (s *PostgresLearningItemStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	return s.getByID(ctx, id, true)
}

func (s *PostgresLearningItemStore) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM learning_items WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learning item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get learning item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}
	return item, nil
}

// Update implements store.LearningItemStore.Update.
func (s *PostgresLearningItemStore) Update(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("learning item validation failed during update",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE learning_items
		SET question = $2, answer = $3, state = $4, step = $5,
			interval_days = $6, due_date = $7, last_review_date = $8,
			review_count = $9, lapses = $10, stability = $11,
			difficulty = $12, priority = $13, is_suspended = $14,
			created_at = $15, updated_at = $16
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, itemArgs(item)...)
	if err != nil {
		log.Error("failed to update learning item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("learning item not found for update",
			slog.String("item_id", item.ID.String()))
		return store.ErrItemNotFound
	}

	log.Debug("learning item updated successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("state", item.State.String()))
	return nil
}

// Delete implements store.LearningItemStore.Delete.
// Review log entries are removed by the schema's ON DELETE CASCADE.
func (s *PostgresLearningItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM learning_items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete learning item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("learning item not found for delete",
			slog.String("item_id", id.String()))
		return store.ErrItemNotFound
	}

	log.Info("learning item deleted successfully",
		slog.String("item_id", id.String()))
	return nil
}

// ListReviewable implements store.LearningItemStore.ListReviewable.
// The filter mirrors queue eligibility: unsuspended and either never
// reviewed or due. Ordering and capping happen in the queue package.
func (s *PostgresLearningItemStore) ListReviewable(ctx context.Context, now time.Time) ([]*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + itemColumns + `
		FROM learning_items
		WHERE NOT is_suspended AND (state = $1 OR due_date <= $2)
		ORDER BY due_date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, domain.StateNew.String(), now)
	if err != nil {
		log.Error("failed to list reviewable items",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.LearningItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan learning item row",
				slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating learning item rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed reviewable items", slog.Int("count", len(items)))
	return items, nil
}

// WithTx implements store.LearningItemStore.WithTx.
func (s *PostgresLearningItemStore) WithTx(tx *sql.Tx) store.LearningItemStore {
	return &PostgresLearningItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func itemArgs(item *domain.LearningItem) []any {
	var stability, difficulty sql.NullFloat64
	if item.Memory != nil {
		stability = sql.NullFloat64{Float64: item.Memory.Stability, Valid: true}
		difficulty = sql.NullFloat64{Float64: item.Memory.Difficulty, Valid: true}
	}
	var lastReview sql.NullTime
	if item.LastReviewDate != nil {
		lastReview = sql.NullTime{Time: *item.LastReviewDate, Valid: true}
	}

	return []any{
		item.ID,
		item.Question,
		item.Answer,
		item.State.String(),
		item.Step,
		item.IntervalDays,
		item.DueDate,
		lastReview,
		item.ReviewCount,
		item.Lapses,
		stability,
		difficulty,
		item.Priority,
		item.IsSuspended,
		item.CreatedAt,
		item.UpdatedAt,
	}
}

func scanItem(row rowScanner) (*domain.LearningItem, error) {
	var (
		item       domain.LearningItem
		state      string
		lastReview sql.NullTime
		stability  sql.NullFloat64
		difficulty sql.NullFloat64
	)

	err := row.Scan(
		&item.ID,
		&item.Question,
		&item.Answer,
		&state,
		&item.Step,
		&item.IntervalDays,
		&item.DueDate,
		&lastReview,
		&item.ReviewCount,
		&item.Lapses,
		&stability,
		&difficulty,
		&item.Priority,
		&item.IsSuspended,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := item.State.UnmarshalText([]byte(state)); err != nil {
		return nil, err
	}
	if lastReview.Valid {
		t := lastReview.Time
		item.LastReviewDate = &t
	}
	if stability.Valid && difficulty.Valid {
		item.Memory = &domain.MemoryState{
			Stability:  stability.Float64,
			Difficulty: difficulty.Float64,
		}
	}

	return &item, nil
}
