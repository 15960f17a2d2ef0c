package redis

import (
	"context"
	"errors"

	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// StudentCache implements the student.Cache interface using the generic
// Redis cache. Cards are written on read (cache-aside) and invalidated
// by the grade-recorded and standing-changed event handlers.
type StudentCache struct {
	cache *Cache
}

// NewStudentCache creates a new StudentCache.
func NewStudentCache(cache *Cache) *StudentCache {
	return &StudentCache{cache: cache}
}

// Get returns a student card from cache.
// Returns shared.ErrNotFound on a miss.
func (s *StudentCache) Get(ctx context.Context, id shared.RecordID) (*student.Student, error) {
	var st student.Student
	if err := s.cache.Get(ctx, StudentKey(id.String()), &st); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// Set stores a student card in cache with the default TTL.
func (s *StudentCache) Set(ctx context.Context, st *student.Student) error {
	if st == nil {
		return nil
	}
	return s.cache.Set(ctx, StudentKey(st.ID.String()), st, TTLStudentCache)
}

// Invalidate removes a student card from cache.
func (s *StudentCache) Invalidate(ctx context.Context, id shared.RecordID) error {
	return s.cache.Delete(ctx, StudentKey(id.String()))
}
