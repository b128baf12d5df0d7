package srs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/incrementum/incrementum-api/internal/domain"
)

// Common errors
var (
	ErrNilItem       = errors.New("learning item cannot be nil")
	ErrInvalidRating = errors.New("invalid review rating")
	ErrInvalidParams = errors.New("invalid scheduler parameters")
	ErrInvalidDays   = errors.New("postpone days must be at least 1")
)

// Outcome is the result of committing one rating against an item. Item is a
// fully updated copy; the reviewed item is never mutated. Log is the
// append-only record the caller is responsible for persisting alongside the
// item.
type Outcome struct {
	Item        *domain.LearningItem
	Log         *domain.ReviewLog
	LapsesDelta int
}

// PreviewOutcome is the projected result of a single rating.
type PreviewOutcome struct {
	State        domain.ItemState   `json:"state"`
	Memory       domain.MemoryState `json:"memory_state"`
	IntervalDays float64            `json:"interval_days"`
	DueDate      time.Time          `json:"due_date"`
}

// Preview holds the projected outcome for each of the four ratings without
// committing any of them.
type Preview struct {
	Again PreviewOutcome `json:"again"`
	Hard  PreviewOutcome `json:"hard"`
	Good  PreviewOutcome `json:"good"`
	Easy  PreviewOutcome `json:"easy"`
}

// ForRating returns the projected outcome for the given rating.
func (p *Preview) ForRating(r domain.Rating) PreviewOutcome {
	switch r {
	case domain.RatingAgain:
		return p.Again
	case domain.RatingHard:
		return p.Hard
	case domain.RatingGood:
		return p.Good
	default:
		return p.Easy
	}
}

// Service defines the interface for scheduling operations.
type Service interface {
	// Review computes the item's next state, due date, and review log for
	// the given rating. Pure: the input item is not mutated and nothing is
	// persisted; the caller commits the returned Outcome.
	Review(item *domain.LearningItem, rating domain.Rating, now time.Time) (*Outcome, error)

	// Preview computes the outcome of all four ratings against the current
	// state. The numbers are identical to what Review would produce for the
	// same rating at the same now.
	Preview(item *domain.LearningItem, now time.Time) (*Preview, error)

	// Postpone pushes the item's due date forward by a number of days.
	Postpone(item *domain.LearningItem, days int, now time.Time) (*domain.LearningItem, error)

	// Retrievability estimates the probability of successful recall at now.
	// Returns 0 for items that have never been reviewed.
	Retrievability(item *domain.LearningItem, now time.Time) float64
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
	algo   algorithm
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a scheduling service with custom parameters.
// A nil params falls back to the defaults.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
		algo:   newAlgorithm(params.Weights),
	}
}

// Review implements the Service interface.
func (s *defaultService) Review(
	item *domain.LearningItem,
	rating domain.Rating,
	now time.Time,
) (*Outcome, error) {
	if item == nil {
		return nil, ErrNilItem
	}
	if !rating.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	next, elapsed := s.apply(item, rating, now)

	var stateBefore *domain.MemoryState
	if item.Memory != nil {
		m := *item.Memory
		stateBefore = &m
	}

	log := &domain.ReviewLog{
		ID:               uuid.New(),
		ItemID:           item.ID,
		Rating:           rating,
		ReviewedAt:       now,
		ElapsedDays:      elapsed,
		StateBefore:      stateBefore,
		StateAfter:       *next.Memory,
		PreviousInterval: item.IntervalDays,
		NewInterval:      next.IntervalDays,
	}

	return &Outcome{
		Item:        next,
		Log:         log,
		LapsesDelta: next.Lapses - item.Lapses,
	}, nil
}

// Preview implements the Service interface. It runs the identical
// computation as Review for each rating against copies of the item, so the
// projected numbers never diverge from what a commit would produce.
func (s *defaultService) Preview(item *domain.LearningItem, now time.Time) (*Preview, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	preview := &Preview{}
	for _, r := range []domain.Rating{
		domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
	} {
		next, _ := s.apply(item, r, now)
		outcome := PreviewOutcome{
			State:        next.State,
			Memory:       *next.Memory,
			IntervalDays: next.IntervalDays,
			DueDate:      next.DueDate,
		}
		switch r {
		case domain.RatingAgain:
			preview.Again = outcome
		case domain.RatingHard:
			preview.Hard = outcome
		case domain.RatingGood:
			preview.Good = outcome
		case domain.RatingEasy:
			preview.Easy = outcome
		}
	}
	return preview, nil
}

// Postpone implements the Service interface.
func (s *defaultService) Postpone(
	item *domain.LearningItem,
	days int,
	now time.Time,
) (*domain.LearningItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}
	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := item.Clone()
	next.DueDate = item.DueDate.AddDate(0, 0, days)
	next.UpdatedAt = now
	return next, nil
}

// Retrievability implements the Service interface.
func (s *defaultService) Retrievability(item *domain.LearningItem, now time.Time) float64 {
	if item == nil || item.Memory == nil || item.LastReviewDate == nil {
		return 0
	}
	m := normalizeMemory(*item.Memory)
	elapsed := now.Sub(*item.LastReviewDate).Hours() / 24.0
	if elapsed < 0 {
		elapsed = 0
	}
	return s.algo.retrievability(elapsed, m.Stability)
}

// apply computes the full post-review item state: memory update, state
// machine transition, interval, and counters. Returns the updated copy and
// the elapsed days used for the memory update.
func (s *defaultService) apply(
	item *domain.LearningItem,
	rating domain.Rating,
	now time.Time,
) (*domain.LearningItem, float64) {
	next := item.Clone()

	// Elapsed days since the last review. Distributed clients may have
	// slight clock skew, so a negative elapsed is clamped to zero rather
	// than rejected.
	elapsed := 0.0
	if item.LastReviewDate != nil {
		elapsed = now.Sub(*item.LastReviewDate).Hours() / 24.0
		if elapsed < 0 {
			elapsed = 0
		}
	}

	s.updateMemory(next, rating, elapsed)

	// Lapses count only failed recalls of previously graduated items.
	if rating == domain.RatingAgain &&
		(item.State == domain.StateReview || item.State == domain.StateRelearning) {
		next.Lapses++
	}

	interval := s.transition(next, item.State, rating)

	next.IntervalDays = interval.Hours() / 24.0
	next.DueDate = now.Add(interval)
	lastReview := now
	next.LastReviewDate = &lastReview
	next.ReviewCount++
	next.UpdatedAt = now
	return next, elapsed
}

// updateMemory updates stability and difficulty on the clone. First ratings
// initialize the memory state; same-day re-reviews take the short-term
// curve, which avoids the degenerate elapsed values the forgetting curve
// cannot handle.
func (s *defaultService) updateMemory(next *domain.LearningItem, rating domain.Rating, elapsed float64) {
	if next.Memory == nil {
		next.Memory = &domain.MemoryState{
			Stability:  s.algo.initialStability(rating),
			Difficulty: s.algo.initialDifficulty(rating, true),
		}
		return
	}

	m := normalizeMemory(*next.Memory)
	var stability float64
	if elapsed < 1 {
		stability = s.algo.shortTermStability(m.Stability, rating)
	} else {
		r := s.algo.retrievability(elapsed, m.Stability)
		stability = s.algo.nextStability(m.Difficulty, m.Stability, r, rating)
	}
	next.Memory = &domain.MemoryState{
		Stability:  stability,
		Difficulty: s.algo.nextDifficulty(m.Difficulty, rating),
	}
}

// transition applies the state machine and returns the scheduling interval.
func (s *defaultService) transition(
	next *domain.LearningItem,
	prior domain.ItemState,
	rating domain.Rating,
) time.Duration {
	switch prior {
	case domain.StateNew:
		// First exposure enters the learning ladder at step zero.
		next.State = domain.StateLearning
		next.Step = 0
		return s.ladderStep(next, rating, s.params.LearningSteps)
	case domain.StateLearning:
		return s.ladderStep(next, rating, s.params.LearningSteps)
	case domain.StateRelearning:
		return s.ladderStep(next, rating, s.params.RelearningSteps)
	default:
		return s.reviewStep(next, rating)
	}
}

// ladderStep handles the Learning and Relearning fixed-interval ladder.
func (s *defaultService) ladderStep(
	next *domain.LearningItem,
	rating domain.Rating,
	steps []time.Duration,
) time.Duration {
	step := next.Step

	// No ladder configured, or the stored step overflowed after a config
	// change: graduate on any passing rating.
	if len(steps) == 0 || (step >= len(steps) && rating != domain.RatingAgain) {
		return s.graduate(next)
	}

	switch rating {
	case domain.RatingAgain:
		next.Step = 0
		return steps[0]

	case domain.RatingHard:
		if step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if step == 0 && len(steps) >= 2 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[step]

	case domain.RatingGood:
		nextStep := step + 1
		if nextStep >= len(steps) {
			// Passed the last step.
			return s.graduate(next)
		}
		next.Step = nextStep
		return steps[nextStep]

	default:
		// Easy skips the remaining ladder.
		return s.graduate(next)
	}
}

// reviewStep handles ratings on graduated items.
func (s *defaultService) reviewStep(next *domain.LearningItem, rating domain.Rating) time.Duration {
	if rating == domain.RatingAgain {
		if len(s.params.RelearningSteps) > 0 {
			next.State = domain.StateRelearning
			next.Step = 0
			return s.params.RelearningSteps[0]
		}
		// No relearning ladder configured: the item stays in Review on its
		// reduced stability. The lapse has already been counted.
	}

	next.Step = 0
	days := s.algo.nextIntervalDays(
		next.Memory.Stability, s.params.DesiredRetention, s.params.MaximumIntervalDays)

	switch rating {
	case domain.RatingHard:
		days = s.clampIntervalDays(math.Round(days * s.params.HardIntervalMultiplier))
	case domain.RatingEasy:
		days = s.clampIntervalDays(math.Round(days * s.params.EasyBonus))
	}
	return daysToDuration(days)
}

// graduate moves an item out of the ladder into Review. The first graduated
// interval is floored at the configured graduating interval.
func (s *defaultService) graduate(next *domain.LearningItem) time.Duration {
	next.State = domain.StateReview
	next.Step = 0
	days := s.algo.nextIntervalDays(
		next.Memory.Stability, s.params.DesiredRetention, s.params.MaximumIntervalDays)
	if days < s.params.GraduatingIntervalDays {
		days = s.params.GraduatingIntervalDays
	}
	return daysToDuration(days)
}

func (s *defaultService) clampIntervalDays(days float64) float64 {
	if days < 1 {
		return 1
	}
	if days > s.params.MaximumIntervalDays {
		return s.params.MaximumIntervalDays
	}
	return days
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
