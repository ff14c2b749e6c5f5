package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/turkosaurus/runpager/internal/listing"
)

// CachingSource wraps a listing.Source and keeps the last non-empty first
// page in a Cache.
type CachingSource[T any] struct {
	source listing.Source[T]
	cache  *Cache
	key    string
}

// NewCachingSource returns src with its first page persisted under key.
func NewCachingSource[T any](src listing.Source[T], cache *Cache, key string) *CachingSource[T] {
	return &CachingSource[T]{source: src, cache: cache, key: key}
}

// Fetch implements listing.Source. A failure to write the cache is logged
// and does not fail the fetch.
func (s *CachingSource[T]) Fetch(ctx context.Context, req listing.PageRequest) (listing.Batch[T], error) {
	batch, err := s.source.Fetch(ctx, req)
	if err != nil || req.Page != 1 || len(batch.Items) == 0 {
		return batch, err
	}
	if err := s.cache.Put(s.key, batch.Items); err != nil {
		slog.Warn("cache first page", "key", s.key, "error", err)
	}
	return batch, nil
}

// Cached returns the first page saved by the last successful fetch.
func (s *CachingSource[T]) Cached() ([]T, time.Time, error) {
	var items []T
	savedAt, err := s.cache.Get(s.key, &items)
	if err != nil {
		return nil, time.Time{}, err
	}
	return items, savedAt, nil
}
