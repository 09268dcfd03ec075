// Package profile defines the seven-score profile vector and the measures
// computed over it.
package profile

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Vector holds one score in [0,100] per dimension; index i is dimension i+1.
type Vector [dimension.Count]int

// New validates scores and builds a Vector.
func New(scores []int) (Vector, error) {
	var v Vector
	if len(scores) != dimension.Count {
		return v, fmt.Errorf("%w: profile needs %d scores, got %d", domain.ErrInvalidInput, dimension.Count, len(scores))
	}
	for i, s := range scores {
		if s < MinScore || s > MaxScore {
			return v, fmt.Errorf("%w: score %d at position %d out of range [%d,%d]",
				domain.ErrInvalidInput, s, i, MinScore, MaxScore)
		}
		v[i] = s
	}
	return v, nil
}

// Uniform returns a vector with every dimension set to s.
func Uniform(s int) Vector {
	var v Vector
	for i := range v {
		v[i] = s
	}
	return v
}

// Score returns the score of d.
func (v Vector) Score(d dimension.Dimension) int {
	if !d.IsValid() {
		return 0
	}
	return v[d.Index()]
}

// Dominant returns the highest-scoring dimension. Ties go to the lowest id.
func (v Vector) Dominant() dimension.Dimension {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	d, _ := dimension.FromIndex(best)
	return d
}

// IntensityMax returns the highest score.
func (v Vector) IntensityMax() int {
	return v[v.Dominant().Index()]
}

// Slice returns the scores as a slice in canonical order.
func (v Vector) Slice() []int {
	out := make([]int, len(v))
	copy(out, v[:])
	return out
}

// Magnitude returns the Euclidean norm.
func (v Vector) Magnitude() float64 {
	var sum float64
	for _, s := range v {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum)
}

// Named is a profile with the display identity of the item it describes.
type Named struct {
	ID      int64
	Name    string
	Profile Vector
}
