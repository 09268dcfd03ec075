// Package dimension defines the seven fixed axes a text profile is scored on.
package dimension

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension is one of the seven semantic axes, identified 1..7.
type Dimension int

// Dimension constants in canonical order.
const (
	Mysteries Dimension = iota + 1
	Creation
	Attributes
	Eschatology
	Oneness
	Guidance
	Misguidance
)

// Count is the number of dimensions in a profile.
const Count = 7

type info struct {
	slug        string
	name        string
	description string
}

var catalog = [Count]info{
	{"mysteries", "Mysteries", "Divine mysteries, unexplained letters, the secrets of the universe"},
	{"creation", "Creation", "Creation of the universe, the heavens and the earth, the signs of creation"},
	{"attributes", "Attributes", "Divine attributes and names, power and qualities"},
	{"eschatology", "Eschatology", "The day of resurrection, paradise, hell, the hereafter"},
	{"oneness", "Oneness", "Divine oneness, invocation, exclusive worship"},
	{"guidance", "Guidance", "The straight path and everything that leads toward good"},
	{"misguidance", "Misguidance", "The path of those who went astray"},
}

// All returns every dimension in canonical order.
func All() []Dimension {
	return []Dimension{Mysteries, Creation, Attributes, Eschatology, Oneness, Guidance, Misguidance}
}

// IsValid reports whether d is one of the seven dimensions.
func (d Dimension) IsValid() bool {
	return d >= Mysteries && d <= Misguidance
}

// Index returns the zero-based position of d in a profile vector.
func (d Dimension) Index() int { return int(d) - 1 }

// ID returns the 1-based identity.
func (d Dimension) ID() int { return int(d) }

// Slug returns the lowercase machine name, e.g. "eschatology".
func (d Dimension) Slug() string {
	if !d.IsValid() {
		return ""
	}
	return catalog[d.Index()].slug
}

// String returns the display name.
func (d Dimension) String() string {
	if !d.IsValid() {
		return "Dimension(" + strconv.Itoa(int(d)) + ")"
	}
	return catalog[d.Index()].name
}

// Description returns a short human description.
func (d Dimension) Description() string {
	if !d.IsValid() {
		return ""
	}
	return catalog[d.Index()].description
}

// FromIndex maps a zero-based vector position back to its dimension.
func FromIndex(i int) (Dimension, bool) {
	d := Dimension(i + 1)
	return d, d.IsValid()
}

// Parse accepts a numeric id ("3") or a slug ("attributes"), case-insensitive.
func Parse(s string) (Dimension, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		d := Dimension(n)
		if !d.IsValid() {
			return 0, fmt.Errorf("dimension id %d out of range 1..%d", n, Count)
		}
		return d, nil
	}
	for i, c := range catalog {
		if c.slug == s {
			return Dimension(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q", s)
}
