package profile

// Cosine returns the cosine similarity of a and b. A zero vector on either
// side yields 0 rather than NaN.
func Cosine(a, b Vector) float64 {
	magA, magB := a.Magnitude(), b.Magnitude()
	if magA == 0 || magB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := dot / (magA * magB)
	// float error can push identical vectors a hair above 1
	if sim > 1 {
		sim = 1
	}
	return sim
}

// AbsoluteError is the mean absolute difference between two score lists,
// scaled to [0,1] by the maximum possible error. Lists of different length
// score the worst value, 1.
func AbsoluteError(predicted, correct []int) float64 {
	if len(predicted) != len(correct) || len(predicted) == 0 {
		return 1
	}
	var total int
	for i := range predicted {
		d := predicted[i] - correct[i]
		if d < 0 {
			d = -d
		}
		total += d
	}
	return float64(total) / float64(len(predicted)*MaxScore)
}
