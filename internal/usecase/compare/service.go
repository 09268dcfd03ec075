package compare

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	logpkg "github.com/kailas-cloud/heptuple/internal/logger"
)

// ProfileReader loads stored profiles.
type ProfileReader interface {
	Get(ctx context.Context, id int64) (profile.Named, error)
}

// ProfileWriter persists profiles.
type ProfileWriter interface {
	Put(ctx context.Context, p profile.Named) error
}

// ProfileStore reads and writes profiles.
type ProfileStore interface {
	ProfileReader
	ProfileWriter
}

// Service compares stored or inline profiles.
type Service struct {
	store ProfileStore
}

// New creates a comparison service.
func New(store ProfileStore) *Service {
	return &Service{store: store}
}

// Compare compares inline profiles.
func (s *Service) Compare(ctx context.Context, profiles []profile.Named, opts Options) (*Result, error) {
	res, err := Compare(profiles, opts)
	if err != nil {
		return nil, err
	}
	logpkg.FromContext(ctx).Debug("Profiles compared",
		zap.Int("count", len(profiles)),
		zap.Float64("similarity_max", res.Range.Max),
	)
	return res, nil
}

// CompareByID loads the listed profiles and compares them.
// A missing id fails with domain.ErrNotFound.
func (s *Service) CompareByID(ctx context.Context, ids []int64, opts Options) (*Result, error) {
	if len(ids) < MinProfiles {
		return nil, domain.NewInsufficientProfiles(len(ids), MinProfiles)
	}
	if len(ids) > MaxProfiles {
		return nil, fmt.Errorf("%w: at most %d profiles per comparison, got %d",
			domain.ErrInvalidInput, MaxProfiles, len(ids))
	}

	profiles := make([]profile.Named, 0, len(ids))
	for _, id := range ids {
		p, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get profile %d: %w", id, err)
		}
		profiles = append(profiles, p)
	}
	return s.Compare(ctx, profiles, opts)
}

// Save stores a named profile.
func (s *Service) Save(ctx context.Context, p profile.Named) error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: profile id must be positive", domain.ErrInvalidInput)
	}
	if err := s.store.Put(ctx, p); err != nil {
		return fmt.Errorf("save profile %d: %w", p.ID, err)
	}
	return nil
}

// Get returns a stored profile.
func (s *Service) Get(ctx context.Context, id int64) (profile.Named, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return profile.Named{}, fmt.Errorf("get profile %d: %w", id, err)
	}
	return p, nil
}
