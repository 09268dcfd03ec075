// Package compare computes similarity and aggregate statistics over a set of
// stored profiles.
package compare

import (
	"fmt"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
)

// Profile count bounds per comparison.
const (
	MinProfiles = 2
	MaxProfiles = 10
)

// Options narrows the per-dimension statistics.
type Options struct {
	// Focus limits averages and the variance insight to these dimensions.
	// Empty means all. Similarity always uses every dimension.
	Focus []dimension.Dimension
}

// DimensionStat is the spread of one dimension across the compared profiles.
type DimensionStat struct {
	Dimension dimension.Dimension
	Average   float64
	Variance  float64 // population variance
}

// Range is the min/max similarity over distinct pairs.
type Range struct {
	Min float64
	Max float64
}

// Result is a finished comparison.
type Result struct {
	Profiles   []profile.Named
	Similarity [][]float64 // NxN, symmetric, diagonal 1
	Stats      []DimensionStat
	Range      Range
	Insights   []string
}

// Compare builds the similarity matrix, statistics and insights for profiles.
func Compare(profiles []profile.Named, opts Options) (*Result, error) {
	if len(profiles) < MinProfiles {
		return nil, domain.NewInsufficientProfiles(len(profiles), MinProfiles)
	}
	if len(profiles) > MaxProfiles {
		return nil, fmt.Errorf("%w: at most %d profiles per comparison, got %d",
			domain.ErrInvalidInput, MaxProfiles, len(profiles))
	}
	dims, err := focusDimensions(opts.Focus)
	if err != nil {
		return nil, err
	}

	n := len(profiles)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	var rng Range
	first := true
	// most similar pair: strictly positive, first pair wins ties
	bestSim, bestI, bestJ := 0.0, -1, -1
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := profile.Cosine(profiles[i].Profile, profiles[j].Profile)
			matrix[i][j], matrix[j][i] = sim, sim

			if first || sim < rng.Min {
				rng.Min = sim
			}
			if first || sim > rng.Max {
				rng.Max = sim
			}
			first = false

			if sim > bestSim {
				bestSim, bestI, bestJ = sim, i, j
			}
		}
	}

	stats := dimensionStats(profiles, dims)

	insights := make([]string, 0, 2)
	if v, ok := mostVariable(stats); ok {
		insights = append(insights,
			fmt.Sprintf("Dimension '%s' shows the greatest variability across the compared profiles.", v.Slug()))
	}
	if bestI >= 0 {
		insights = append(insights,
			fmt.Sprintf("'%s' and '%s' are the most similar (similarity: %.2f).",
				profiles[bestI].Name, profiles[bestJ].Name, bestSim))
	}

	out := make([]profile.Named, n)
	copy(out, profiles)
	return &Result{
		Profiles:   out,
		Similarity: matrix,
		Stats:      stats,
		Range:      rng,
		Insights:   insights,
	}, nil
}

func focusDimensions(focus []dimension.Dimension) ([]dimension.Dimension, error) {
	if len(focus) == 0 {
		return dimension.All(), nil
	}
	seen := make(map[dimension.Dimension]bool, len(focus))
	dims := make([]dimension.Dimension, 0, len(focus))
	for _, d := range focus {
		if !d.IsValid() {
			return nil, fmt.Errorf("%w: unknown dimension %d", domain.ErrInvalidInput, int(d))
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		dims = append(dims, d)
	}
	return dims, nil
}

func dimensionStats(profiles []profile.Named, dims []dimension.Dimension) []DimensionStat {
	n := float64(len(profiles))
	stats := make([]DimensionStat, 0, len(dims))
	for _, d := range dims {
		var sum float64
		for _, p := range profiles {
			sum += float64(p.Profile.Score(d))
		}
		mean := sum / n

		var sq float64
		for _, p := range profiles {
			diff := float64(p.Profile.Score(d)) - mean
			sq += diff * diff
		}
		stats = append(stats, DimensionStat{Dimension: d, Average: mean, Variance: sq / n})
	}
	return stats
}

// mostVariable returns the dimension with the highest variance, first on ties.
func mostVariable(stats []DimensionStat) (dimension.Dimension, bool) {
	if len(stats) == 0 {
		return 0, false
	}
	best := stats[0]
	for _, s := range stats[1:] {
		if s.Variance > best.Variance {
			best = s
		}
	}
	return best.Dimension, true
}
