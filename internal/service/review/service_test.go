package review

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
	"github.com/incrementum/incrementum-api/internal/queue"
	"github.com/incrementum/incrementum-api/internal/store"
)

// mockItemRepo is a func-field ItemRepository for unit tests. WithTx returns
// the receiver so transactional code paths exercise the same mock.
type mockItemRepo struct {
	CreateFunc           func(ctx context.Context, item *domain.LearningItem) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	UpdateFunc           func(ctx context.Context, item *domain.LearningItem) error
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
	ListReviewableFunc   func(ctx context.Context, now time.Time) ([]*domain.LearningItem, error)
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.LearningItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, store.ErrItemNotFound
}

func (m *mockItemRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return nil, store.ErrItemNotFound
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.LearningItem) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockItemRepo) ListReviewable(ctx context.Context, now time.Time) ([]*domain.LearningItem, error) {
	if m.ListReviewableFunc != nil {
		return m.ListReviewableFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockItemRepo) WithTx(_ *sql.Tx) ItemRepository { return m }

func (m *mockItemRepo) DB() *sql.DB { return nil }

// mockLogRepo is a func-field LogRepository for unit tests.
type mockLogRepo struct {
	AppendFunc          func(ctx context.Context, entry *domain.ReviewLog) error
	ListByItemFunc      func(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error)
	ListReviewTimesFunc func(ctx context.Context) ([]time.Time, error)
}

func (m *mockLogRepo) Append(ctx context.Context, entry *domain.ReviewLog) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

func (m *mockLogRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error) {
	if m.ListByItemFunc != nil {
		return m.ListByItemFunc(ctx, itemID)
	}
	return nil, nil
}

func (m *mockLogRepo) ListReviewTimes(ctx context.Context) ([]time.Time, error) {
	if m.ListReviewTimesFunc != nil {
		return m.ListReviewTimesFunc(ctx)
	}
	return nil, nil
}

func (m *mockLogRepo) WithTx(_ *sql.Tx) LogRepository { return m }

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

// newTestService builds a service around the mocks with a fixed clock and a
// pass-through transaction runner, so unit tests never touch a real database.
func newTestService(items *mockItemRepo, logs *mockLogRepo) *reviewServiceImpl {
	s := &reviewServiceImpl{
		itemRepo:   items,
		logRepo:    logs,
		srsService: srs.NewDefaultService(),
		queueCfg:   queue.DefaultConfig(),
		streakLoc:  time.UTC,
		now:        func() time.Time { return testNow },
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.runTx = func(ctx context.Context, fn txFn) error {
		return fn(ctx, items, logs)
	}
	return s
}

// reviewStateItem returns a graduated item that lapsed due a day ago.
func reviewStateItem() *domain.LearningItem {
	last := testNow.AddDate(0, 0, -10)
	return &domain.LearningItem{
		ID:             uuid.New(),
		Question:       "What is the forgetting curve?",
		Answer:         "Exponential decay of recall probability over time.",
		State:          domain.StateReview,
		IntervalDays:   10,
		DueDate:        testNow.AddDate(0, 0, -1),
		LastReviewDate: &last,
		ReviewCount:    3,
		Memory:         &domain.MemoryState{Stability: 10, Difficulty: 5},
		CreatedAt:      testNow.AddDate(0, 0, -30),
		UpdatedAt:      last,
	}
}

func TestSubmitReviewSuccess(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	var updated *domain.LearningItem
	var appended *domain.ReviewLog

	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, id uuid.UUID) (*domain.LearningItem, error) {
			require.Equal(t, item.ID, id)
			return item, nil
		},
		UpdateFunc: func(_ context.Context, it *domain.LearningItem) error {
			updated = it
			return nil
		},
	}
	logs := &mockLogRepo{
		AppendFunc: func(_ context.Context, entry *domain.ReviewLog) error {
			appended = entry
			return nil
		},
	}
	svc := newTestService(items, logs)

	outcome, err := svc.SubmitReview(context.Background(), item.ID, domain.RatingGood)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	require.NotNil(t, updated, "item update must be persisted")
	assert.Equal(t, item.ReviewCount+1, updated.ReviewCount)
	assert.True(t, updated.DueDate.After(testNow))

	require.NotNil(t, appended, "review log must be persisted")
	assert.Equal(t, item.ID, appended.ItemID)
	assert.Equal(t, domain.RatingGood, appended.Rating)
	assert.Equal(t, testNow, appended.ReviewedAt)
}

func TestSubmitReviewInvalidRating(t *testing.T) {
	t.Parallel()

	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			t.Fatal("repository must not be touched for an invalid rating")
			return nil, nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	for _, rating := range []domain.Rating{0, 5, -1} {
		_, err := svc.SubmitReview(context.Background(), uuid.New(), rating)
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
}

func TestSubmitReviewItemNotFound(t *testing.T) {
	t.Parallel()

	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return nil, store.ErrItemNotFound
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	_, err := svc.SubmitReview(context.Background(), uuid.New(), domain.RatingGood)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSubmitReviewSuspendedItem(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	item.IsSuspended = true

	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
		UpdateFunc: func(_ context.Context, _ *domain.LearningItem) error {
			t.Fatal("suspended items must not be updated")
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	_, err := svc.SubmitReview(context.Background(), item.ID, domain.RatingGood)
	assert.ErrorIs(t, err, ErrItemSuspended)
}

func TestSubmitReviewUpdateFailureAborts(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	updateErr := errors.New("connection reset")

	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
		UpdateFunc: func(_ context.Context, _ *domain.LearningItem) error {
			return updateErr
		},
	}
	logs := &mockLogRepo{
		AppendFunc: func(_ context.Context, _ *domain.ReviewLog) error {
			t.Fatal("log must not be appended when the item update fails")
			return nil
		},
	}
	svc := newTestService(items, logs)

	_, err := svc.SubmitReview(context.Background(), item.ID, domain.RatingGood)
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "submit_review", svcErr.Operation)
	assert.ErrorIs(t, err, updateErr)
}

func TestGetQueueOrdersAndFilters(t *testing.T) {
	t.Parallel()

	overdue := reviewStateItem()
	overdue.DueDate = testNow.AddDate(0, 0, -5)
	recent := reviewStateItem()
	recent.DueDate = testNow.Add(-time.Hour)

	items := &mockItemRepo{
		ListReviewableFunc: func(_ context.Context, now time.Time) ([]*domain.LearningItem, error) {
			assert.Equal(t, testNow, now)
			return []*domain.LearningItem{recent, overdue}, nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	got, err := svc.GetQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, overdue.ID, got[0].ID, "most overdue item comes first")
	assert.Equal(t, recent.ID, got[1].ID)
}

func TestGetQueueStoreError(t *testing.T) {
	t.Parallel()

	items := &mockItemRepo{
		ListReviewableFunc: func(_ context.Context, _ time.Time) ([]*domain.LearningItem, error) {
			return nil, errors.New("query timeout")
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	_, err := svc.GetQueue(context.Background())
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "get_queue", svcErr.Operation)
}

func TestPreviewMatchesSubmittedOutcome(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	items := &mockItemRepo{
		GetByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item.Clone(), nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	preview, err := svc.Preview(context.Background(), item.ID)
	require.NoError(t, err)

	outcome, err := svc.SubmitReview(context.Background(), item.ID, domain.RatingGood)
	require.NoError(t, err)

	assert.Equal(t, preview.Good.DueDate, outcome.Item.DueDate)
	assert.Equal(t, preview.Good.IntervalDays, outcome.Item.IntervalDays)
	assert.Equal(t, preview.Good.State, outcome.Item.State)
}

func TestPreviewItemNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockItemRepo{}, &mockLogRepo{})

	_, err := svc.Preview(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPostpone(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	var updated *domain.LearningItem
	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
		UpdateFunc: func(_ context.Context, it *domain.LearningItem) error {
			updated = it
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	got, err := svc.Postpone(context.Background(), item.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, testNow.AddDate(0, 0, 3), got.DueDate)
	assert.Equal(t, item.Memory, got.Memory, "postponing must not touch memory state")
}

func TestPostponeInvalidDays(t *testing.T) {
	t.Parallel()

	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			t.Fatal("repository must not be touched for invalid days")
			return nil, nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	for _, days := range []int{0, -1} {
		_, err := svc.Postpone(context.Background(), uuid.New(), days)
		assert.ErrorIs(t, err, ErrInvalidDays, "days %d", days)
	}
}

func TestSetSuspended(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	var updated *domain.LearningItem
	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
		UpdateFunc: func(_ context.Context, it *domain.LearningItem) error {
			updated = it
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	got, err := svc.SetSuspended(context.Background(), item.ID, true)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, got.IsSuspended)
	assert.Equal(t, testNow, got.UpdatedAt)
	assert.False(t, item.IsSuspended, "stored item is not mutated in place")
}

func TestSetSuspendedNoChange(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	items := &mockItemRepo{
		GetByIDForUpdateFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
		UpdateFunc: func(_ context.Context, _ *domain.LearningItem) error {
			t.Fatal("no-op suspension change must not write")
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	got, err := svc.SetSuspended(context.Background(), item.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsSuspended)
}

func TestGetStreak(t *testing.T) {
	t.Parallel()

	logs := &mockLogRepo{
		ListReviewTimesFunc: func(_ context.Context) ([]time.Time, error) {
			return []time.Time{
				testNow.Add(-2 * time.Hour),
				testNow.AddDate(0, 0, -1),
				testNow.AddDate(0, 0, -1).Add(-time.Hour),
				testNow.AddDate(0, 0, -7),
			}, nil
		},
	}
	svc := newTestService(&mockItemRepo{}, logs)

	info, err := svc.GetStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, info.Current)
	assert.Equal(t, 2, info.Longest)
	assert.Equal(t, 3, info.ActiveDays)
	assert.Equal(t, 4, info.TotalReview)
}

func TestCreateItem(t *testing.T) {
	t.Parallel()

	var created *domain.LearningItem
	items := &mockItemRepo{
		CreateFunc: func(_ context.Context, it *domain.LearningItem) error {
			created = it
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	got, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Question: "What triggers a lapse?",
		Answer:   "An Again rating on a graduated item.",
		Priority: 0.8,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, domain.StateNew, got.State)
	assert.Equal(t, 0.8, got.Priority)
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()

	items := &mockItemRepo{
		CreateFunc: func(_ context.Context, _ *domain.LearningItem) error {
			t.Fatal("invalid items must not reach the store")
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	_, err := svc.CreateItem(context.Background(), CreateItemRequest{Question: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemQuestionEmpty)
}

func TestGetItemNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockItemRepo{}, &mockLogRepo{})

	_, err := svc.GetItem(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	var deleted uuid.UUID
	items := &mockItemRepo{
		DeleteFunc: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	assert.Equal(t, item.ID, deleted)
}

func TestDeleteItemNotFound(t *testing.T) {
	t.Parallel()

	items := &mockItemRepo{
		DeleteFunc: func(_ context.Context, _ uuid.UUID) error {
			return store.ErrItemNotFound
		},
	}
	svc := newTestService(items, &mockLogRepo{})

	err := svc.DeleteItem(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	item := reviewStateItem()
	items := &mockItemRepo{
		GetByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.LearningItem, error) {
			return item, nil
		},
	}
	logs := &mockLogRepo{
		ListByItemFunc: func(_ context.Context, itemID uuid.UUID) ([]*domain.ReviewLog, error) {
			require.Equal(t, item.ID, itemID)
			return []*domain.ReviewLog{
				{ID: uuid.New(), ItemID: itemID, Rating: domain.RatingGood},
				{ID: uuid.New(), ItemID: itemID, Rating: domain.RatingAgain},
			}, nil
		},
	}
	svc := newTestService(items, logs)

	entries, err := svc.GetHistory(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGetHistoryItemNotFound(t *testing.T) {
	t.Parallel()

	logs := &mockLogRepo{
		ListByItemFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.ReviewLog, error) {
			t.Fatal("log repository must not be queried for a missing item")
			return nil, nil
		},
	}
	svc := newTestService(&mockItemRepo{}, logs)

	_, err := svc.GetHistory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}
