package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
)

// MockReviewService is a mock implementation of the ReviewService interface
// for testing. Each method delegates to the corresponding func field when
// set and returns zero values otherwise.
type MockReviewService struct {
	GetQueueFunc     func(ctx context.Context) ([]*domain.LearningItem, error)
	SubmitReviewFunc func(ctx context.Context, itemID uuid.UUID, rating domain.Rating) (*srs.Outcome, error)
	PreviewFunc      func(ctx context.Context, itemID uuid.UUID) (*srs.Preview, error)
	PostponeFunc     func(ctx context.Context, itemID uuid.UUID, days int) (*domain.LearningItem, error)
	SetSuspendedFunc func(ctx context.Context, itemID uuid.UUID, suspended bool) (*domain.LearningItem, error)
	GetStreakFunc    func(ctx context.Context) (*StreakInfo, error)
	CreateItemFunc   func(ctx context.Context, req CreateItemRequest) (*domain.LearningItem, error)
	GetItemFunc      func(ctx context.Context, itemID uuid.UUID) (*domain.LearningItem, error)
	DeleteItemFunc   func(ctx context.Context, itemID uuid.UUID) error
	GetHistoryFunc   func(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error)
}

var _ ReviewService = (*MockReviewService)(nil)

// GetQueue returns the current review queue.
func (m *MockReviewService) GetQueue(ctx context.Context) ([]*domain.LearningItem, error) {
	if m.GetQueueFunc != nil {
		return m.GetQueueFunc(ctx)
	}
	return nil, nil
}

// SubmitReview processes a rating for an item.
func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	itemID uuid.UUID,
	rating domain.Rating,
) (*srs.Outcome, error) {
	if m.SubmitReviewFunc != nil {
		return m.SubmitReviewFunc(ctx, itemID, rating)
	}
	return nil, nil
}

// Preview computes the projected outcome for every rating.
func (m *MockReviewService) Preview(ctx context.Context, itemID uuid.UUID) (*srs.Preview, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, itemID)
	}
	return nil, nil
}

// Postpone pushes an item's due date forward.
func (m *MockReviewService) Postpone(ctx context.Context, itemID uuid.UUID, days int) (*domain.LearningItem, error) {
	if m.PostponeFunc != nil {
		return m.PostponeFunc(ctx, itemID, days)
	}
	return nil, nil
}

// SetSuspended toggles an item's suspension.
func (m *MockReviewService) SetSuspended(ctx context.Context, itemID uuid.UUID, suspended bool) (*domain.LearningItem, error) {
	if m.SetSuspendedFunc != nil {
		return m.SetSuspendedFunc(ctx, itemID, suspended)
	}
	return nil, nil
}

// GetStreak derives streak statistics from the review history.
func (m *MockReviewService) GetStreak(ctx context.Context) (*StreakInfo, error) {
	if m.GetStreakFunc != nil {
		return m.GetStreakFunc(ctx)
	}
	return nil, nil
}

// CreateItem creates a new learning item.
func (m *MockReviewService) CreateItem(ctx context.Context, req CreateItemRequest) (*domain.LearningItem, error) {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, req)
	}
	return nil, nil
}

// GetItem retrieves a single item by ID.
func (m *MockReviewService) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.LearningItem, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, itemID)
	}
	return nil, nil
}

// DeleteItem removes an item and its review history.
func (m *MockReviewService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, itemID)
	}
	return nil
}

// GetHistory returns the item's review log entries.
func (m *MockReviewService) GetHistory(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, itemID)
	}
	return nil, nil
}
