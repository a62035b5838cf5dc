// Package cache stores encoded read results for a bounded time.
package cache

import (
	"context"
	"time"
)

// Store keeps encoded values by key. Expired entries are ignored by Get
// but only removed by DeletePrefix, Clear or the backend itself.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Stats describes the current cache content.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}
