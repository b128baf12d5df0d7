package srs

import (
	"math"

	"github.com/incrementum/incrementum-api/internal/domain"
)

// minStability is the floor applied to every stability update so an item
// never stalls at zero.
const minStability = 0.001

// algorithm holds the weights plus constants precomputed from them.
type algorithm struct {
	w      [WeightCount]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newAlgorithm(w [WeightCount]float64) algorithm {
	decay := -w[20]
	factor := math.Pow(0.9, 1.0/decay) - 1.0
	return algorithm{w: w, decay: decay, factor: factor}
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY, the
// estimated probability of recall after elapsedDays with stability S.
// Monotonically decreasing in elapsedDays, increasing in stability.
func (a *algorithm) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+a.factor*elapsedDays/stability, a.decay)
}

// initialStability returns the starting stability for a first rating.
// Easy > Good > Hard > Again by construction of the weight ordering.
func (a *algorithm) initialStability(r domain.Rating) float64 {
	return clampStability(a.w[r-1])
}

// initialDifficulty returns the starting difficulty for a first rating:
// D0(G) = w[4] - e^(w[5] * (G - 1)) + 1. Again yields the highest value.
func (a *algorithm) initialDifficulty(r domain.Rating, clamp bool) float64 {
	d := a.w[4] - math.Exp(a.w[5]*float64(r-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextDifficulty computes the updated difficulty after a review, with
// linear damping toward the bounds and mean reversion toward D0(Easy).
func (a *algorithm) nextDifficulty(difficulty float64, r domain.Rating) float64 {
	deltaD := -a.w[6] * (float64(r) - 3)
	dPrime := difficulty + (domain.MaxDifficulty-difficulty)*deltaD/9
	d0Easy := a.initialDifficulty(domain.RatingEasy, false)
	return clampDifficulty(a.w[7]*d0Easy + (1-a.w[7])*dPrime)
}

// shortTermStability computes the same-day review stability update.
// Applied when elapsed time is under a day, where the forgetting curve
// would otherwise divide degenerate elapsed values.
func (a *algorithm) shortTermStability(stability float64, r domain.Rating) float64 {
	sInc := math.Exp(a.w[17]*(float64(r)-3+a.w[18])) * math.Pow(stability, -a.w[19])
	if r == domain.RatingGood || r == domain.RatingEasy {
		sInc = math.Max(sInc, 1.0)
	}
	return clampStability(stability * sInc)
}

// nextStability dispatches on the rating: Again takes the forgetting path,
// everything else the recall path.
func (a *algorithm) nextStability(difficulty, stability, retrievability float64, r domain.Rating) float64 {
	if r == domain.RatingAgain {
		return clampStability(a.forgetStability(difficulty, stability, retrievability))
	}
	return clampStability(a.recallStability(difficulty, stability, retrievability, r))
}

// recallStability computes stability after a successful recall. The growth
// factor is larger when retrievability was low (recalling a nearly-forgotten
// item strengthens it more), scaled down for Hard and up for Easy.
func (a *algorithm) recallStability(d, s, r float64, rating domain.Rating) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = a.w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = a.w[16]
	}
	return s * (1 + math.Exp(a.w[8])*
		(11-d)*
		math.Pow(s, -a.w[9])*
		(math.Exp((1-r)*a.w[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability computes stability after a lapse: the minimum of the
// long-term post-lapse estimate and a short-term ceiling derived from the
// pre-lapse stability, so a lapse never increases stability.
func (a *algorithm) forgetStability(d, s, r float64) float64 {
	long := a.w[11] *
		math.Pow(d, -a.w[12]) *
		(math.Pow(s+1, a.w[13]) - 1) *
		math.Exp((1-r)*a.w[14])
	short := s / math.Exp(a.w[17]*a.w[18])
	return math.Min(long, short)
}

// nextIntervalDays inverts the forgetting curve at the desired retention:
// I(r, S) = (S / FACTOR) * (r^(1/DECAY) - 1), rounded to whole days and
// clamped to [1, maxDays].
func (a *algorithm) nextIntervalDays(stability, desiredRetention, maxDays float64) float64 {
	ivl := stability / a.factor * (math.Pow(desiredRetention, 1.0/a.decay) - 1)
	rounded := math.Round(ivl)
	if rounded < 1 {
		rounded = 1
	}
	if rounded > maxDays {
		rounded = maxDays
	}
	return rounded
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, domain.MinDifficulty), domain.MaxDifficulty)
}

// normalizeMemory clamps a stored memory state on entry. Upstream data may
// have drifted (imports, sync conflicts), so out-of-range values are pulled
// back into the documented domain instead of rejected.
func normalizeMemory(m domain.MemoryState) domain.MemoryState {
	return domain.MemoryState{
		Stability:  clampStability(m.Stability),
		Difficulty: clampDifficulty(m.Difficulty),
	}
}
