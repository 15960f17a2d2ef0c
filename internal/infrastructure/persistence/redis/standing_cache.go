package redis

import (
	"context"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
)

// CachedStandingRepository decorates a standing.Repository with a Redis
// read-through cache. Standing rows are immutable once materialized, so
// the cache never needs event-driven invalidation - only the TTL.
//
// GetByID is the hot path: the reconcile loop resolves the student's
// current standing reference on every run.
type CachedStandingRepository struct {
	inner standing.Repository
	cache *Cache
}

// NewCachedStandingRepository wraps a repository with the cache.
func NewCachedStandingRepository(inner standing.Repository, cache *Cache) *CachedStandingRepository {
	return &CachedStandingRepository{inner: inner, cache: cache}
}

// GetOrCreate delegates to the underlying repository and caches the
// result. Creation must stay in the database: the UNIQUE constraint is
// the only safe coordinator.
func (r *CachedStandingRepository) GetOrCreate(ctx context.Context, v standing.Variant) (*standing.State, error) {
	st, err := r.inner.GetOrCreate(ctx, v)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, StandingKey(st.ID.String()), st, TTLStandingCache)
	return st, nil
}

// GetByID returns a standing row, preferring the cache.
func (r *CachedStandingRepository) GetByID(ctx context.Context, id shared.RecordID) (*standing.State, error) {
	var cached standing.State
	if err := r.cache.Get(ctx, StandingKey(id.String()), &cached); err == nil {
		return &cached, nil
	}

	// A miss and Redis trouble both fall through to the database.
	st, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, StandingKey(st.ID.String()), st, TTLStandingCache)
	return st, nil
}

// GetByVariant delegates to the underlying repository.
func (r *CachedStandingRepository) GetByVariant(ctx context.Context, v standing.Variant) (*standing.State, error) {
	return r.inner.GetByVariant(ctx, v)
}

// ListAll delegates to the underlying repository.
func (r *CachedStandingRepository) ListAll(ctx context.Context) ([]*standing.State, error) {
	return r.inner.ListAll(ctx)
}
