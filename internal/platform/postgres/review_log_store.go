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

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, log *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: log.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append.
// Returns store.ErrInvalidEntity if the entry is invalid or references a
// nonexistent item.
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed during append",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var stabilityBefore, difficultyBefore sql.NullFloat64
	if entry.StateBefore != nil {
		stabilityBefore = sql.NullFloat64{Float64: entry.StateBefore.Stability, Valid: true}
		difficultyBefore = sql.NullFloat64{Float64: entry.StateBefore.Difficulty, Valid: true}
	}

	query := `
		INSERT INTO review_logs (id, item_id, rating, reviewed_at, elapsed_days,
			stability_before, difficulty_before, stability_after, difficulty_after,
			previous_interval, new_interval)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ItemID,
		int(entry.Rating),
		entry.ReviewedAt,
		entry.ElapsedDays,
		stabilityBefore,
		difficultyBefore,
		entry.StateAfter.Stability,
		entry.StateAfter.Difficulty,
		entry.PreviousInterval,
		entry.NewInterval,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolationCode:
				log.Warn("review log references unknown item",
					slog.String("item_id", entry.ItemID.String()))
				return fmt.Errorf("%w: learning item %s not found",
					store.ErrInvalidEntity, entry.ItemID)
			case pgUniqueViolationCode:
				log.Warn("duplicate review log entry",
					slog.String("log_id", entry.ID.String()))
				return fmt.Errorf("%w: review log %s", store.ErrDuplicate, entry.ID)
			}
		}
		log.Error("failed to append review log",
			slog.String("error", err.Error()),
			slog.String("log_id", entry.ID.String()))
		return err
	}

	log.Debug("review log appended successfully",
		slog.String("log_id", entry.ID.String()),
		slog.String("item_id", entry.ItemID.String()),
		slog.String("rating", entry.Rating.String()))
	return nil
}

// ListByItem implements store.ReviewLogStore.ListByItem.
func (s *PostgresReviewLogStore) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, item_id, rating, reviewed_at, elapsed_days,
			stability_before, difficulty_before, stability_after, difficulty_after,
			previous_interval, new_interval
		FROM review_logs
		WHERE item_id = $1
		ORDER BY reviewed_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, itemID)
	if err != nil {
		log.Error("failed to list review logs",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.ReviewLog
	for rows.Next() {
		var (
			entry            domain.ReviewLog
			rating           int
			stabilityBefore  sql.NullFloat64
			difficultyBefore sql.NullFloat64
		)
		err := rows.Scan(
			&entry.ID,
			&entry.ItemID,
			&rating,
			&entry.ReviewedAt,
			&entry.ElapsedDays,
			&stabilityBefore,
			&difficultyBefore,
			&entry.StateAfter.Stability,
			&entry.StateAfter.Difficulty,
			&entry.PreviousInterval,
			&entry.NewInterval,
		)
		if err != nil {
			log.Error("failed to scan review log row",
				slog.String("error", err.Error()))
			return nil, err
		}
		entry.Rating = domain.Rating(rating)
		if stabilityBefore.Valid && difficultyBefore.Valid {
			entry.StateBefore = &domain.MemoryState{
				Stability:  stabilityBefore.Float64,
				Difficulty: difficultyBefore.Float64,
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating review log rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return entries, nil
}

// ListReviewTimes implements store.ReviewLogStore.ListReviewTimes.
func (s *PostgresReviewLogStore) ListReviewTimes(ctx context.Context) ([]time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT reviewed_at FROM review_logs ORDER BY reviewed_at ASC`)
	if err != nil {
		log.Error("failed to list review times",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			log.Error("failed to scan review time",
				slog.String("error", err.Error()))
			return nil, err
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating review time rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return times, nil
}

// WithTx implements store.ReviewLogStore.WithTx.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}
