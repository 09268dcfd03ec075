package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
)

func TestNew(t *testing.T) {
	v, err := New([]int{0, 10, 20, 30, 40, 50, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Score(dimension.Misguidance) != 100 || v.Score(dimension.Creation) != 10 {
		t.Errorf("unexpected vector: %v", v)
	}

	bad := [][]int{
		nil,
		{1, 2, 3},
		{1, 2, 3, 4, 5, 6, 7, 8},
		{0, 0, 0, 0, 0, 0, 101},
		{-1, 0, 0, 0, 0, 0, 0},
	}
	for _, scores := range bad {
		if _, err := New(scores); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("New(%v): expected ErrInvalidInput, got %v", scores, err)
		}
	}
}

func TestDominant_FirstMax(t *testing.T) {
	tests := []struct {
		v    Vector
		want dimension.Dimension
		max  int
	}{
		{Vector{50, 80, 80, 10, 0, 0, 0}, dimension.Creation, 80},
		{Uniform(14), dimension.Mysteries, 14},
		{Vector{0, 0, 0, 0, 0, 0, 1}, dimension.Misguidance, 1},
		{Vector{}, dimension.Mysteries, 0},
		{Vector{10, 20, 30, 100, 30, 100, 0}, dimension.Eschatology, 100},
	}
	for _, tc := range tests {
		if got := tc.v.Dominant(); got != tc.want {
			t.Errorf("%v.Dominant() = %v, want %v", tc.v, got, tc.want)
		}
		if got := tc.v.IntensityMax(); got != tc.max {
			t.Errorf("%v.IntensityMax() = %d, want %d", tc.v, got, tc.max)
		}
	}
}

func TestSlice_IsCopy(t *testing.T) {
	v := Uniform(50)
	s := v.Slice()
	s[0] = 1
	if v[0] != 50 {
		t.Error("Slice must not alias the vector")
	}
}

func TestCosine(t *testing.T) {
	a := Vector{10, 20, 30, 40, 50, 60, 70}
	b := Vector{70, 60, 50, 40, 30, 20, 10}

	if got := Cosine(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("self similarity = %f, want 1", got)
	}
	if Cosine(a, b) != Cosine(b, a) {
		t.Error("cosine must be symmetric")
	}
	if got := Cosine(Vector{}, a); got != 0 {
		t.Errorf("zero vector similarity = %f, want 0", got)
	}
	if got := Cosine(a, Vector{}); got != 0 {
		t.Errorf("zero vector similarity = %f, want 0", got)
	}
	orth := Cosine(Vector{100}, Vector{0, 100})
	if orth != 0 {
		t.Errorf("orthogonal similarity = %f, want 0", orth)
	}

	// 10*70+20*60+30*50+40*40+50*30+60*20+70*10 = 8400; |a|^2 = 14000
	want := 8400.0 / 14000.0
	if got := Cosine(a, b); math.Abs(got-want) > 1e-9 {
		t.Errorf("Cosine = %f, want %f", got, want)
	}
}

func TestAbsoluteError(t *testing.T) {
	tests := []struct {
		name       string
		pred, corr []int
		want       float64
	}{
		{"identical", []int{10, 20}, []int{10, 20}, 0},
		{"max", []int{0, 0}, []int{100, 100}, 1},
		{"partial", []int{50, 50, 50, 50, 50, 50, 50}, []int{60, 40, 50, 50, 50, 50, 50}, 20.0 / 700.0},
		{"length mismatch", []int{1}, []int{1, 2}, 1},
		{"empty", nil, nil, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AbsoluteError(tc.pred, tc.corr); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("AbsoluteError = %f, want %f", got, tc.want)
			}
		})
	}
}
