package heptuple

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	compareuc "github.com/kailas-cloud/heptuple/internal/usecase/compare"
)

// ProfileService stores and compares named profiles.
type ProfileService struct {
	svc *compareuc.Service
}

// Save stores p under its id, replacing any previous profile.
func (s *ProfileService) Save(ctx context.Context, p Profile) error {
	named, err := toInternalProfile(p)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err := s.svc.Save(ctx, named); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Get returns a stored profile. A missing id fails with ErrNotFound.
func (s *ProfileService) Get(ctx context.Context, id int64) (Profile, error) {
	p, err := s.svc.Get(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return fromInternalProfile(p), nil
}

// Compare compares 2..10 stored profiles. Focus narrows the statistics.
func (s *ProfileService) Compare(ctx context.Context, ids []int64, focus ...Dimension) (*Comparison, error) {
	res, err := s.svc.CompareByID(ctx, ids, compareuc.Options{Focus: toInternalFocus(focus)})
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return fromInternalComparison(res), nil
}

// CompareProfiles compares profiles that are not stored.
func (s *ProfileService) CompareProfiles(ctx context.Context, profiles []Profile, focus ...Dimension) (*Comparison, error) {
	named := make([]profile.Named, len(profiles))
	for i, p := range profiles {
		n, err := toInternalProfile(p)
		if err != nil {
			return nil, fmt.Errorf("compare: profile %d: %w", p.ID, err)
		}
		named[i] = n
	}

	res, err := s.svc.Compare(ctx, named, compareuc.Options{Focus: toInternalFocus(focus)})
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return fromInternalComparison(res), nil
}
