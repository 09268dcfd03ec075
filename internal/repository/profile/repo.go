// Package profile persists named profiles as hashes, one field per dimension.
package profile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	domprofile "github.com/kailas-cloud/heptuple/internal/domain/profile"
)

const fieldName = "name"

// store is the consumer interface for profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/compare.ProfileStore.
type Repo struct {
	store  store
	prefix string
}

// New creates a profile repository. keyPrefix namespaces every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix + "profile:"}
}

// Put stores p, replacing any previous profile with the same id.
func (r *Repo) Put(ctx context.Context, p domprofile.Named) error {
	if err := r.store.HSet(ctx, r.key(p.ID), toHash(p)); err != nil {
		return fmt.Errorf("hset profile %d: %w", p.ID, err)
	}
	return nil
}

// Get loads a profile. A missing id returns domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id int64) (domprofile.Named, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domprofile.Named{}, fmt.Errorf("hgetall profile %d: %w", id, err)
	}
	if len(m) == 0 {
		return domprofile.Named{}, fmt.Errorf("profile %d: %w", id, domain.ErrNotFound)
	}
	return fromHash(id, m)
}

func (r *Repo) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}

func toHash(p domprofile.Named) map[string]string {
	m := make(map[string]string, dimension.Count+1)
	m[fieldName] = p.Name
	for _, d := range dimension.All() {
		m[d.Slug()] = strconv.Itoa(p.Profile.Score(d))
	}
	return m
}

func fromHash(id int64, m map[string]string) (domprofile.Named, error) {
	scores := make([]int, dimension.Count)
	for _, d := range dimension.All() {
		raw, ok := m[d.Slug()]
		if !ok {
			return domprofile.Named{}, fmt.Errorf("profile %d: missing %s score", id, d.Slug())
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domprofile.Named{}, fmt.Errorf("profile %d: parse %s score: %w", id, d.Slug(), err)
		}
		scores[d.Index()] = v
	}
	v, err := domprofile.New(scores)
	if err != nil {
		// stored data is corrupt, not the caller's input
		return domprofile.Named{}, fmt.Errorf("profile %d: corrupt scores: %v", id, err) //nolint:errorlint // hide ErrInvalidInput
	}
	return domprofile.Named{ID: id, Name: m[fieldName], Profile: v}, nil
}
