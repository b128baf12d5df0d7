package srs

import (
	"fmt"
	"time"
)

// WeightCount is the number of tunable memory-model weights.
const WeightCount = 21

// DefaultWeights are the default memory-model weight values, calibrated
// against the reference review dataset.
var DefaultWeights = [WeightCount]float64{
	0.212, 1.2931, 2.3065, 8.2956, // w[0..3]  initial stability per rating
	6.4133, 0.8334, 3.0194, 0.001, // w[4..7]  difficulty
	1.8722, 0.1666, 0.796, 1.4835, // w[8..11] recall stability
	0.0614, 0.2629, 1.6483, 0.6014, // w[12..15] forget stability, hard penalty
	1.8729, 0.5425, 0.0912, 0.0658, // w[16..19] easy bonus, short-term
	0.1542, // w[20] decay exponent
}

// weightLowerBounds and weightUpperBounds bound each weight.
var (
	weightLowerBounds = [WeightCount]float64{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightUpperBounds = [WeightCount]float64{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// ValidateWeights checks that all weights are within their bounds.
func ValidateWeights(w [WeightCount]float64) error {
	for i := 0; i < WeightCount; i++ {
		if w[i] < weightLowerBounds[i] || w[i] > weightUpperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidParams, i, w[i], weightLowerBounds[i], weightUpperBounds[i])
		}
	}
	return nil
}

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Memory-model weights.
	Weights [WeightCount]float64

	// DesiredRetention is the target retrievability used to invert the
	// forgetting curve into an interval (e.g. 0.9 for 90%).
	DesiredRetention float64

	// MaximumIntervalDays caps any scheduled interval.
	MaximumIntervalDays float64

	// LearningSteps is the fixed short-interval ladder for New items.
	// Empty means items graduate to Review on their first passing rating.
	LearningSteps []time.Duration

	// RelearningSteps is the ladder applied after a lapse. Empty means a
	// lapsed item stays in Review with a model-computed interval.
	RelearningSteps []time.Duration

	// GraduatingIntervalDays is the minimum interval assigned when an item
	// first graduates from the learning ladder.
	GraduatingIntervalDays float64

	// EasyBonus multiplies the computed Review interval on Easy ratings.
	EasyBonus float64

	// HardIntervalMultiplier multiplies the computed Review interval on
	// Hard ratings.
	HardIntervalMultiplier float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero-valued fields keep their defaults.
type ParamsConfig struct {
	Weights                []float64 // Must have WeightCount entries when set.
	DesiredRetention       float64
	MaximumIntervalDays    float64
	LearningStepMinutes    []int
	RelearningStepMinutes  []int
	GraduatingIntervalDays float64
	EasyBonus              float64
	HardIntervalMultiplier float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		Weights:                DefaultWeights,
		DesiredRetention:       0.9,
		MaximumIntervalDays:    36500, // 100 years
		LearningSteps:          []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:        []time.Duration{10 * time.Minute},
		GraduatingIntervalDays: 1,
		EasyBonus:              1.0,
		HardIntervalMultiplier: 1.0,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Returns an error if an override is out of range.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.Weights != nil {
		if len(config.Weights) != WeightCount {
			return nil, fmt.Errorf("%w: expected %d weights, got %d",
				ErrInvalidParams, WeightCount, len(config.Weights))
		}
		copy(params.Weights[:], config.Weights)
	}
	if err := ValidateWeights(params.Weights); err != nil {
		return nil, err
	}

	if config.DesiredRetention != 0 {
		if config.DesiredRetention <= 0 || config.DesiredRetention > 1 {
			return nil, fmt.Errorf("%w: desired retention %f out of range (0, 1]",
				ErrInvalidParams, config.DesiredRetention)
		}
		params.DesiredRetention = config.DesiredRetention
	}

	if config.MaximumIntervalDays != 0 {
		if config.MaximumIntervalDays < 1 {
			return nil, fmt.Errorf("%w: maximum interval %f must be at least 1 day",
				ErrInvalidParams, config.MaximumIntervalDays)
		}
		params.MaximumIntervalDays = config.MaximumIntervalDays
	}

	// A non-nil empty slice is a deliberate "no steps" override.
	if config.LearningStepMinutes != nil {
		params.LearningSteps = minutesToDurations(config.LearningStepMinutes)
	}
	if config.RelearningStepMinutes != nil {
		params.RelearningSteps = minutesToDurations(config.RelearningStepMinutes)
	}

	if config.GraduatingIntervalDays > 0 {
		params.GraduatingIntervalDays = config.GraduatingIntervalDays
	}
	if config.EasyBonus > 0 {
		params.EasyBonus = config.EasyBonus
	}
	if config.HardIntervalMultiplier > 0 {
		params.HardIntervalMultiplier = config.HardIntervalMultiplier
	}

	return params, nil
}

func minutesToDurations(minutes []int) []time.Duration {
	steps := make([]time.Duration, len(minutes))
	for i, m := range minutes {
		steps[i] = time.Duration(m) * time.Minute
	}
	return steps
}
