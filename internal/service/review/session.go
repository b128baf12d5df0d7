package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
)

// ErrSessionComplete indicates that every item in the session queue has been
// handled.
var ErrSessionComplete = errors.New("review session complete")

// defaultSecondsPerItem seeds the time estimate before any item has been
// completed in this session.
const defaultSecondsPerItem = 30

// Session walks a fixed review queue one item at a time. The queue is
// captured at session start and never re-ordered; rated items are never
// re-presented, and the cursor advances only after the service has
// successfully committed a rating, so the displayed position can never run
// ahead of persisted state.
//
// A Session is owned by a single caller and is not safe for concurrent use.
type Session struct {
	svc ReviewService

	queue    []*domain.LearningItem
	index    int
	reviewed map[uuid.UUID]bool

	completed int
	correct   int
	skipped   int
	startedAt time.Time
	now       clock
}

// SessionStats summarizes progress through a session.
type SessionStats struct {
	Completed int           `json:"completed"`
	Correct   int           `json:"correct"`
	Skipped   int           `json:"skipped"`
	Remaining int           `json:"remaining"`
	Accuracy  float64       `json:"accuracy"` // Fraction of completed reviews rated Good or Easy.
	Elapsed   time.Duration `json:"elapsed"`
}

// StartSession pulls the current queue and begins a session over it.
// An empty queue is a valid session; CurrentItem returns nil immediately.
func StartSession(ctx context.Context, svc ReviewService) (*Session, error) {
	if svc == nil {
		panic("svc cannot be nil")
	}

	items, err := svc.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	return &Session{
		svc:       svc,
		queue:     items,
		reviewed:  make(map[uuid.UUID]bool, len(items)),
		startedAt: systemClock(),
		now:       systemClock,
	}, nil
}

// CurrentItem returns the item awaiting a rating, or nil when the session
// is complete.
func (s *Session) CurrentItem() *domain.LearningItem {
	if s.index >= len(s.queue) {
		return nil
	}
	return s.queue[s.index]
}

// Submit rates the current item. The rating is committed through the
// service first; only on success does the session mark the item reviewed
// and advance. On failure the cursor stays put so the caller can retry.
// Returns ErrSessionComplete when no item is awaiting a rating.
func (s *Session) Submit(ctx context.Context, rating domain.Rating) (*srs.Outcome, error) {
	item := s.CurrentItem()
	if item == nil {
		return nil, ErrSessionComplete
	}

	outcome, err := s.svc.SubmitReview(ctx, item.ID, rating)
	if err != nil {
		return nil, err
	}

	s.reviewed[item.ID] = true
	s.index++
	s.completed++
	if rating.IsCorrect() {
		s.correct++
	}
	return outcome, nil
}

// Skip leaves the current item unrated and moves on. Skipped items are not
// re-queued within this session; they surface again on the next queue pull.
func (s *Session) Skip() {
	if s.index < len(s.queue) {
		s.index++
		s.skipped++
	}
}

// Reload replaces the remaining queue with a fresh pull, dropping anything
// already rated this session so reloading can never re-present a rated item.
func (s *Session) Reload(ctx context.Context) error {
	items, err := s.svc.GetQueue(ctx)
	if err != nil {
		return err
	}

	fresh := items[:0:0]
	for _, item := range items {
		if !s.reviewed[item.ID] {
			fresh = append(fresh, item)
		}
	}
	s.queue = fresh
	s.index = 0
	return nil
}

// Remaining returns how many items are still awaiting a rating.
func (s *Session) Remaining() int {
	return len(s.queue) - s.index
}

// Stats returns a snapshot of session progress.
func (s *Session) Stats() SessionStats {
	stats := SessionStats{
		Completed: s.completed,
		Correct:   s.correct,
		Skipped:   s.skipped,
		Remaining: s.Remaining(),
		Elapsed:   s.now().Sub(s.startedAt),
	}
	if s.completed > 0 {
		stats.Accuracy = float64(s.correct) / float64(s.completed)
	}
	return stats
}

// EstimatedTimeRemaining projects how long the rest of the queue will take,
// using the average pace of completed reviews or a 30-second default before
// any review has finished.
func (s *Session) EstimatedTimeRemaining() time.Duration {
	remaining := s.Remaining()
	if remaining == 0 {
		return 0
	}

	perItem := time.Duration(defaultSecondsPerItem) * time.Second
	if s.completed > 0 {
		perItem = s.now().Sub(s.startedAt) / time.Duration(s.completed)
	}
	return time.Duration(remaining) * perItem
}
