// Package cache provides the key-value store behind the rolling air-quality
// caches, with a valkey-backed implementation for deployments and an
// in-memory one for development and tests.
package cache

import (
	"context"
	"time"
)

// Cache is the get/set-with-TTL contract the rolling caches consume.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
