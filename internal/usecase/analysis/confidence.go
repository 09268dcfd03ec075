package analysis

import (
	"math"
	"unicode/utf8"

	"github.com/kailas-cloud/heptuple/internal/domain/profile"
)

// lengthSaturation is the text length (in characters) at which length stops adding confidence.
const lengthSaturation = 1000

// Confidence estimates a per-dimension weight in [0,1]: half from text length,
// half from the dimension's own normalized score. It is a UI heuristic, not a
// statistical interval.
func Confidence(text string, v profile.Vector) []float64 {
	lengthFactor := math.Min(1, float64(utf8.RuneCountInString(text))/lengthSaturation)

	out := make([]float64, len(v))
	for i, s := range v {
		c := 0.5*lengthFactor + 0.5*(float64(s)/profile.MaxScore)
		out[i] = round3(c)
	}
	return out
}

// MeanConfidence averages confidences, rounded to 3 decimals. Empty input yields 0.
func MeanConfidence(c []float64) float64 {
	if len(c) == 0 {
		return 0
	}
	var sum float64
	for _, v := range c {
		sum += v
	}
	return round3(sum / float64(len(c)))
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
