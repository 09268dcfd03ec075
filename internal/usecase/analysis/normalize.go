package analysis

import (
	"math"

	"github.com/kailas-cloud/heptuple/internal/domain/profile"
)

// Degenerate-case scores.
const (
	// IndeterminateScore fills every dimension when no keyword matched.
	IndeterminateScore = 14
	// BalancedScore fills every dimension when all raw scores are equal and non-zero.
	BalancedScore = 50
)

// Normalize min-max rescales raw scores into [0,100]. The result is a relative
// emphasis profile: the strongest dimension maps to 100, the weakest to 0.
func Normalize(raw RawScores) profile.Vector {
	allZero := true
	lo, hi := raw[0], raw[0]
	for _, r := range raw {
		if r != 0 {
			allZero = false
		}
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}

	if allZero {
		return profile.Uniform(IndeterminateScore)
	}
	if hi == lo {
		return profile.Uniform(BalancedScore)
	}

	var v profile.Vector
	span := hi - lo
	for i, r := range raw {
		n := math.Round((r - lo) / span * profile.MaxScore)
		switch {
		case math.IsNaN(n) || n < profile.MinScore:
			v[i] = profile.MinScore
		case n > profile.MaxScore:
			v[i] = profile.MaxScore
		default:
			v[i] = int(n)
		}
	}
	return v
}
