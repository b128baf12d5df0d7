package srs

import (
	"math"
	"testing"

	"github.com/incrementum/incrementum-api/internal/domain"
)

func TestRetrievabilityMonotonicity(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	// Decreasing in elapsed time for fixed stability.
	stability := 10.0
	prev := 1.1
	for _, elapsed := range []float64{0, 1, 2, 5, 10, 30, 100, 365} {
		r := algo.retrievability(elapsed, stability)
		if r < 0 || r > 1 {
			t.Fatalf("retrievability(%f, %f) = %f, outside [0, 1]", elapsed, stability, r)
		}
		if r > prev {
			t.Errorf("retrievability increased with elapsed time: %f at t=%f (prev %f)", r, elapsed, prev)
		}
		prev = r
	}

	// Increasing in stability for fixed elapsed time.
	elapsed := 10.0
	prev = 0.0
	for _, s := range []float64{0.5, 1, 5, 10, 50, 100} {
		r := algo.retrievability(elapsed, s)
		if r < prev {
			t.Errorf("retrievability decreased with stability: %f at s=%f (prev %f)", r, s, prev)
		}
		prev = r
	}
}

func TestInitialStabilityOrdering(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	again := algo.initialStability(domain.RatingAgain)
	hard := algo.initialStability(domain.RatingHard)
	good := algo.initialStability(domain.RatingGood)
	easy := algo.initialStability(domain.RatingEasy)

	if !(easy > good && good > hard && hard > again) {
		t.Errorf("expected Easy > Good > Hard > Again, got %f, %f, %f, %f", easy, good, hard, again)
	}
	if again <= 0 {
		t.Errorf("initial stability must be positive, got %f", again)
	}
}

func TestInitialDifficultyOrdering(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	// Again implies the item is harder than the rating predicted.
	again := algo.initialDifficulty(domain.RatingAgain, true)
	hard := algo.initialDifficulty(domain.RatingHard, true)
	good := algo.initialDifficulty(domain.RatingGood, true)
	easy := algo.initialDifficulty(domain.RatingEasy, true)

	if !(again > hard && hard > good && good > easy) {
		t.Errorf("expected Again > Hard > Good > Easy, got %f, %f, %f, %f", again, hard, good, easy)
	}
	for _, d := range []float64{again, hard, good, easy} {
		if d < domain.MinDifficulty || d > domain.MaxDifficulty {
			t.Errorf("initial difficulty %f outside [%f, %f]", d, domain.MinDifficulty, domain.MaxDifficulty)
		}
	}
}

func TestNextStabilityGrowthDirection(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	stability := 10.0
	difficulty := 5.0
	retr := algo.retrievability(5.0, stability)

	hard := algo.nextStability(difficulty, stability, retr, domain.RatingHard)
	good := algo.nextStability(difficulty, stability, retr, domain.RatingGood)
	easy := algo.nextStability(difficulty, stability, retr, domain.RatingEasy)

	if !(easy >= good && good >= hard) {
		t.Errorf("expected Easy >= Good >= Hard stability, got %f, %f, %f", easy, good, hard)
	}
	if hard <= stability {
		t.Errorf("successful recall should grow stability, got %f from %f", hard, stability)
	}
}

func TestLapseReducesStability(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	testCases := []struct {
		name       string
		stability  float64
		difficulty float64
		elapsed    float64
	}{
		{name: "typical review item", stability: 10, difficulty: 5, elapsed: 10},
		{name: "very stable item", stability: 365, difficulty: 2, elapsed: 400},
		{name: "fragile item", stability: 1, difficulty: 9, elapsed: 3},
		{name: "barely elapsed", stability: 50, difficulty: 5, elapsed: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			retr := algo.retrievability(tc.elapsed, tc.stability)
			next := algo.nextStability(tc.difficulty, tc.stability, retr, domain.RatingAgain)

			if next >= tc.stability {
				t.Errorf("lapse should reduce stability: got %f from %f", next, tc.stability)
			}
			if next <= 0 {
				t.Errorf("stability must stay positive after lapse, got %f", next)
			}
		})
	}
}

func TestLowRetrievabilityBoostsGrowth(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	// Recalling a nearly-forgotten item strengthens it more than recalling
	// a fresh one.
	stability := 10.0
	difficulty := 5.0

	fresh := algo.retrievability(1, stability)
	stale := algo.retrievability(60, stability)

	growFresh := algo.nextStability(difficulty, stability, fresh, domain.RatingGood)
	growStale := algo.nextStability(difficulty, stability, stale, domain.RatingGood)

	if growStale <= growFresh {
		t.Errorf("low retrievability should boost growth: stale %f <= fresh %f", growStale, growFresh)
	}
}

func TestNextDifficultyDirectionAndClamp(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	testCases := []struct {
		name    string
		current float64
		rating  domain.Rating
		check   func(float64) bool
	}{
		{
			name:    "Again increases difficulty",
			current: 5,
			rating:  domain.RatingAgain,
			check:   func(d float64) bool { return d > 5 },
		},
		{
			name:    "Easy decreases difficulty",
			current: 5,
			rating:  domain.RatingEasy,
			check:   func(d float64) bool { return d < 5 },
		},
		{
			name:    "upper bound enforced",
			current: 10,
			rating:  domain.RatingAgain,
			check:   func(d float64) bool { return d <= domain.MaxDifficulty },
		},
		{
			name:    "lower bound enforced",
			current: 1,
			rating:  domain.RatingEasy,
			check:   func(d float64) bool { return d >= domain.MinDifficulty },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next := algo.nextDifficulty(tc.current, tc.rating)
			if !tc.check(next) {
				t.Errorf("nextDifficulty(%f, %v) = %f fails expectation", tc.current, tc.rating, next)
			}
			if math.IsNaN(next) {
				t.Errorf("nextDifficulty produced NaN")
			}
		})
	}
}

func TestNextIntervalDaysBounds(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	// Tiny stability still yields at least one day.
	if got := algo.nextIntervalDays(0.001, 0.9, 36500); got != 1 {
		t.Errorf("minimum interval should be 1 day, got %f", got)
	}

	// Enormous stability is capped.
	if got := algo.nextIntervalDays(1e9, 0.9, 36500); got != 36500 {
		t.Errorf("interval should cap at maximum, got %f", got)
	}

	// At the reference retention, the interval tracks stability.
	got := algo.nextIntervalDays(10, 0.9, 36500)
	if got < 5 || got > 20 {
		t.Errorf("interval for stability 10 at retention 0.9 out of expected range: %f", got)
	}
}

func TestNextIntervalRetentionTradeoff(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	// A lower retention target tolerates more forgetting, so intervals
	// stretch longer.
	strict := algo.nextIntervalDays(25, 0.95, 36500)
	lax := algo.nextIntervalDays(25, 0.8, 36500)

	if lax <= strict {
		t.Errorf("lower retention should yield longer interval: %f <= %f", lax, strict)
	}
}

func TestShortTermStabilityNoDivisionErrors(t *testing.T) {
	t.Parallel()
	algo := newAlgorithm(DefaultWeights)

	for _, rating := range []domain.Rating{
		domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
	} {
		got := algo.shortTermStability(2.5, rating)
		if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
			t.Errorf("shortTermStability(2.5, %v) = %f", rating, got)
		}
	}

	// Good and Easy never shrink stability on a same-day review.
	if got := algo.shortTermStability(5, domain.RatingGood); got < 5 {
		t.Errorf("same-day Good should not shrink stability: %f", got)
	}
}

func TestNormalizeMemoryClampsDriftedInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   domain.MemoryState
	}{
		{name: "zero stability", in: domain.MemoryState{Stability: 0, Difficulty: 5}},
		{name: "negative stability", in: domain.MemoryState{Stability: -3, Difficulty: 5}},
		{name: "difficulty above range", in: domain.MemoryState{Stability: 4, Difficulty: 42}},
		{name: "difficulty below range", in: domain.MemoryState{Stability: 4, Difficulty: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := normalizeMemory(tc.in)
			if err := out.Validate(); err != nil {
				t.Errorf("normalized memory still invalid: %v", err)
			}
		})
	}
}

func TestValidateWeights(t *testing.T) {
	t.Parallel()

	if err := ValidateWeights(DefaultWeights); err != nil {
		t.Fatalf("default weights should validate: %v", err)
	}

	bad := DefaultWeights
	bad[0] = -1
	if err := ValidateWeights(bad); err == nil {
		t.Error("expected error for out-of-bounds weight")
	}
}
