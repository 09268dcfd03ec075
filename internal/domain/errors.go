package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a request the engine cannot process (empty text, too few profiles).
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedKeywordTable signals a keyword taxonomy that violates its invariants.
	ErrMalformedKeywordTable = errors.New("malformed keyword table")
	// ErrNotFound signals a missing stored resource.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCorpus signals a search against a corpus that does not exist.
	ErrUnknownCorpus = errors.New("unknown corpus")
)

// InsufficientProfilesError is returned when a comparison gets fewer profiles than it needs.
type InsufficientProfilesError struct {
	Got int
	Min int
}

func (e *InsufficientProfilesError) Error() string {
	return fmt.Sprintf("%s: at least %d profiles required, got %d", ErrInvalidInput.Error(), e.Min, e.Got)
}

func (e *InsufficientProfilesError) Unwrap() error { return ErrInvalidInput }

// NewInsufficientProfiles creates an insufficient profiles error.
func NewInsufficientProfiles(got, minimum int) error {
	return &InsufficientProfilesError{Got: got, Min: minimum}
}
