package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LearningItem validation errors.
var (
	ErrItemIDEmpty          = errors.New("learning item ID cannot be empty")
	ErrItemQuestionEmpty    = errors.New("learning item question cannot be empty")
	ErrNegativeReviewCount  = errors.New("review count cannot be negative")
	ErrNegativeLapses       = errors.New("lapses cannot be negative")
	ErrNegativeInterval     = errors.New("interval cannot be negative")
	ErrMissingMemoryState   = errors.New("memory state required for reviewed items")
	ErrInvalidMemoryState   = errors.New("invalid memory state")
	ErrNonPositiveStability = fmt.Errorf("%w: stability must be positive", ErrInvalidMemoryState)
	ErrDifficultyOutOfRange = fmt.Errorf("%w: difficulty must be within [1, 10]", ErrInvalidMemoryState)
)

// Difficulty bounds for the memory model.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
)

// MemoryState holds the memory-model estimate for a learning item.
// Stability is the estimated number of days for retrievability to decay to
// the reference retention threshold; difficulty is the item-intrinsic
// resistance to recall, higher meaning harder.
type MemoryState struct {
	Stability  float64 `json:"stability"`
	Difficulty float64 `json:"difficulty"`
}

// Validate checks the memory-state invariants: stability strictly positive
// and difficulty within [MinDifficulty, MaxDifficulty].
func (m MemoryState) Validate() error {
	if m.Stability <= 0 {
		return ErrNonPositiveStability
	}
	if m.Difficulty < MinDifficulty || m.Difficulty > MaxDifficulty {
		return ErrDifficultyOutOfRange
	}
	return nil
}

// LearningItem is a reviewable unit of knowledge (flashcard, cloze, extract
// prompt) together with its scheduling state. The memory state is absent
// until the item has received its first rating.
type LearningItem struct {
	ID             uuid.UUID    `json:"id"`
	Question       string       `json:"question"`
	Answer         string       `json:"answer,omitempty"`
	State          ItemState    `json:"state"`
	Step           int          `json:"step"`          // Position in the learning/relearning ladder.
	IntervalDays   float64      `json:"interval_days"` // Fractional for sub-day learning steps.
	DueDate        time.Time    `json:"due_date"`
	LastReviewDate *time.Time   `json:"last_review_date,omitempty"`
	ReviewCount    int          `json:"review_count"`
	Lapses         int          `json:"lapses"`
	Memory         *MemoryState `json:"memory_state,omitempty"`
	Priority       float64      `json:"priority"`
	IsSuspended    bool         `json:"is_suspended"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewLearningItem creates a new item in the New state, due immediately.
// Returns an error if validation fails.
func NewLearningItem(question, answer string) (*LearningItem, error) {
	now := time.Now().UTC()
	item := &LearningItem{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		State:     StateNew,
		DueDate:   now, // Available for review immediately.
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks if the LearningItem has valid data.
// Returns an error if any field fails validation.
func (i *LearningItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}
	if i.Question == "" {
		return ErrItemQuestionEmpty
	}
	if !i.State.IsValid() {
		return ErrInvalidItemState
	}
	if i.ReviewCount < 0 {
		return ErrNegativeReviewCount
	}
	if i.Lapses < 0 {
		return ErrNegativeLapses
	}
	if i.IntervalDays < 0 {
		return ErrNegativeInterval
	}
	if i.State != StateNew {
		if i.Memory == nil {
			return ErrMissingMemoryState
		}
		if err := i.Memory.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsDue reports whether the item should be presented for review at now.
// Suspended items are never due.
func (i *LearningItem) IsDue(now time.Time) bool {
	if i.IsSuspended {
		return false
	}
	return !i.DueDate.After(now)
}

// Clone returns a deep copy of the item. Pointer fields are copied by value
// so mutations of the copy never leak back into the original.
func (i *LearningItem) Clone() *LearningItem {
	out := *i
	if i.LastReviewDate != nil {
		t := *i.LastReviewDate
		out.LastReviewDate = &t
	}
	if i.Memory != nil {
		m := *i.Memory
		out.Memory = &m
	}
	return &out
}
