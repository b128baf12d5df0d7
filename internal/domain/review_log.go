package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLog validation errors.
var (
	ErrLogIDEmpty        = errors.New("review log ID cannot be empty")
	ErrLogItemIDEmpty    = errors.New("review log item ID cannot be empty")
	ErrLogElapsedInvalid = errors.New("review log elapsed days cannot be negative")
)

// ReviewLog records a single rating submission for a learning item.
// Entries are append-only and immutable once written; ordering by ReviewedAt
// is the ground truth for streak computation.
type ReviewLog struct {
	ID               uuid.UUID    `json:"id"`
	ItemID           uuid.UUID    `json:"item_id"`
	Rating           Rating       `json:"rating"`
	ReviewedAt       time.Time    `json:"reviewed_at"`
	ElapsedDays      float64      `json:"elapsed_days"`
	StateBefore      *MemoryState `json:"state_before,omitempty"` // nil for the first review.
	StateAfter       MemoryState  `json:"state_after"`
	PreviousInterval float64      `json:"previous_interval"`
	NewInterval      float64      `json:"new_interval"`
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLogIDEmpty
	}
	if l.ItemID == uuid.Nil {
		return ErrLogItemIDEmpty
	}
	if !l.Rating.IsValid() {
		return ErrInvalidRating
	}
	if l.ElapsedDays < 0 {
		return ErrLogElapsedInvalid
	}
	return l.StateAfter.Validate()
}
