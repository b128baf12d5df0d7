package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
	"github.com/incrementum/incrementum-api/internal/platform/logger"
	"github.com/incrementum/incrementum-api/internal/queue"
	"github.com/incrementum/incrementum-api/internal/store"
	"github.com/incrementum/incrementum-api/internal/streak"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	itemRepo   ItemRepository
	logRepo    LogRepository
	srsService srs.Service
	queueCfg   queue.Config
	streakLoc  *time.Location
	now        clock
	logger     *slog.Logger

	// runTx executes a function with transactional repositories. It is a
	// field so unit tests can substitute a pass-through runner.
	runTx func(ctx context.Context, fn txFn) error
}

// txFn is the unit of work executed against transactional repositories.
type txFn func(ctx context.Context, itemRepo ItemRepository, logRepo LogRepository) error

// NewReviewService creates a new ReviewService implementation.
// A nil streakLoc defaults to UTC; a nil logger defaults to slog.Default().
func NewReviewService(
	itemRepo ItemRepository,
	logRepo LogRepository,
	srsService srs.Service,
	queueCfg queue.Config,
	streakLoc *time.Location,
	log *slog.Logger,
) ReviewService {
	if itemRepo == nil {
		panic("itemRepo cannot be nil")
	}
	if logRepo == nil {
		panic("logRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if streakLoc == nil {
		streakLoc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	s := &reviewServiceImpl{
		itemRepo:   itemRepo,
		logRepo:    logRepo,
		srsService: srsService,
		queueCfg:   queueCfg,
		streakLoc:  streakLoc,
		now:        systemClock,
		logger:     log.With(slog.String("component", "review_service")),
	}
	s.runTx = s.runInTransaction
	return s
}

// GetQueue implements ReviewService.GetQueue.
func (s *reviewServiceImpl) GetQueue(ctx context.Context) ([]*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	items, err := s.itemRepo.ListReviewable(ctx, now)
	if err != nil {
		log.Error("failed to list reviewable items",
			slog.String("error", err.Error()))
		return nil, &ServiceError{
			Operation: "get_queue",
			Message:   "failed to list reviewable items",
			Err:       err,
		}
	}

	selected := queue.SelectDue(items, now, s.queueCfg)
	log.Debug("built review queue",
		slog.Int("candidates", len(items)),
		slog.Int("selected", len(selected)))
	return selected, nil
}

// SubmitReview implements ReviewService.SubmitReview.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	itemID uuid.UUID,
	rating domain.Rating,
) (*srs.Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("item_id", itemID.String()),
		slog.String("rating", rating.String()))

	if !rating.IsValid() {
		log.Warn("invalid rating submitted",
			slog.String("item_id", itemID.String()),
			slog.Int("rating", int(rating)))
		return nil, ErrInvalidRating
	}

	var outcome *srs.Outcome
	err := s.runTx(ctx, func(ctx context.Context, itemRepo ItemRepository, logRepo LogRepository) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		if item.IsSuspended {
			log.Warn("review attempted on suspended item",
				slog.String("item_id", itemID.String()))
			return ErrItemSuspended
		}

		result, err := s.srsService.Review(item, rating, s.now())
		if err != nil {
			return fmt.Errorf("failed to compute review outcome: %w", err)
		}

		if err := itemRepo.Update(ctx, result.Item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		if err := logRepo.Append(ctx, result.Log); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		outcome = result
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrItemSuspended) {
			return nil, err
		}
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, &ServiceError{
			Operation: "submit_review",
			Message:   "failed to submit review",
			Err:       err,
		}
	}

	log.Info("review submitted",
		slog.String("item_id", itemID.String()),
		slog.String("rating", rating.String()),
		slog.String("state", outcome.Item.State.String()),
		slog.Float64("interval_days", outcome.Item.IntervalDays),
		slog.Time("due_date", outcome.Item.DueDate))
	return outcome, nil
}

// Preview implements ReviewService.Preview.
func (s *reviewServiceImpl) Preview(ctx context.Context, itemID uuid.UUID) (*srs.Preview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		log.Error("failed to get item for preview",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, &ServiceError{
			Operation: "preview",
			Message:   "failed to get item",
			Err:       err,
		}
	}

	preview, err := s.srsService.Preview(item, s.now())
	if err != nil {
		return nil, &ServiceError{
			Operation: "preview",
			Message:   "failed to compute preview",
			Err:       err,
		}
	}
	return preview, nil
}

// Postpone implements ReviewService.Postpone.
func (s *reviewServiceImpl) Postpone(ctx context.Context, itemID uuid.UUID, days int) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, ErrInvalidDays
	}

	var updated *domain.LearningItem
	err := s.runTx(ctx, func(ctx context.Context, itemRepo ItemRepository, _ LogRepository) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		result, err := s.srsService.Postpone(item, days, s.now())
		if err != nil {
			return fmt.Errorf("failed to postpone item: %w", err)
		}

		if err := itemRepo.Update(ctx, result); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		updated = result
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		log.Error("failed to postpone item",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, &ServiceError{
			Operation: "postpone",
			Message:   "failed to postpone item",
			Err:       err,
		}
	}

	log.Info("item postponed",
		slog.String("item_id", itemID.String()),
		slog.Int("days", days),
		slog.Time("due_date", updated.DueDate))
	return updated, nil
}

// SetSuspended implements ReviewService.SetSuspended.
func (s *reviewServiceImpl) SetSuspended(ctx context.Context, itemID uuid.UUID, suspended bool) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.LearningItem
	err := s.runTx(ctx, func(ctx context.Context, itemRepo ItemRepository, _ LogRepository) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		if item.IsSuspended == suspended {
			updated = item
			return nil
		}

		changed := item.Clone()
		changed.IsSuspended = suspended
		changed.UpdatedAt = s.now()
		if err := itemRepo.Update(ctx, changed); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		updated = changed
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		log.Error("failed to change suspension",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, &ServiceError{
			Operation: "set_suspended",
			Message:   "failed to change suspension",
			Err:       err,
		}
	}

	log.Info("item suspension changed",
		slog.String("item_id", itemID.String()),
		slog.Bool("suspended", suspended))
	return updated, nil
}

// GetStreak implements ReviewService.GetStreak.
func (s *reviewServiceImpl) GetStreak(ctx context.Context) (*StreakInfo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	times, err := s.logRepo.ListReviewTimes(ctx)
	if err != nil {
		log.Error("failed to list review times",
			slog.String("error", err.Error()))
		return nil, &ServiceError{
			Operation: "get_streak",
			Message:   "failed to list review times",
			Err:       err,
		}
	}

	return &StreakInfo{
		Current:     streak.Current(times, s.now(), s.streakLoc),
		Longest:     streak.Longest(times, s.streakLoc),
		ActiveDays:  len(streak.DailyCounts(times, s.streakLoc)),
		TotalReview: len(times),
	}, nil
}

// CreateItem implements ReviewService.CreateItem.
func (s *reviewServiceImpl) CreateItem(ctx context.Context, req CreateItemRequest) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewLearningItem(req.Question, req.Answer)
	if err != nil {
		return nil, &ServiceError{
			Operation: "create_item",
			Message:   "invalid item",
			Err:       err,
		}
	}
	item.Priority = req.Priority

	if err := s.itemRepo.Create(ctx, item); err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return nil, &ServiceError{
			Operation: "create_item",
			Message:   "failed to create item",
			Err:       err,
		}
	}

	log.Info("item created", slog.String("item_id", item.ID.String()))
	return item, nil
}

// GetItem implements ReviewService.GetItem.
func (s *reviewServiceImpl) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.LearningItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, &ServiceError{
			Operation: "get_item",
			Message:   "failed to get item",
			Err:       err,
		}
	}
	return item, nil
}

// DeleteItem implements ReviewService.DeleteItem.
func (s *reviewServiceImpl) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return ErrItemNotFound
		}
		log.Error("failed to delete item",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return &ServiceError{
			Operation: "delete_item",
			Message:   "failed to delete item",
			Err:       err,
		}
	}

	log.Info("item deleted", slog.String("item_id", itemID.String()))
	return nil
}

// GetHistory implements ReviewService.GetHistory.
func (s *reviewServiceImpl) GetHistory(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	entries, err := s.logRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "get_history",
			Message:   "failed to list review log entries",
			Err:       err,
		}
	}
	return entries, nil
}

// runInTransaction runs the given function with transactional repositories.
func (s *reviewServiceImpl) runInTransaction(ctx context.Context, fn txFn) error {
	return store.RunInTransaction(ctx, s.itemRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.itemRepo.WithTx(tx), s.logRepo.WithTx(tx))
	})
}
