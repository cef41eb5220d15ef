// Package localstore persists the client-side state that must survive a
// restart: the token pair, the theme preference and cached reference data.
package localstore

import (
	"context"
	"errors"
	"time"
)

// Fixed keys.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyDarkMode     = "darkMode"
)

// ErrNotFound is returned when a key or cache entry does not exist.
var ErrNotFound = errors.New("not found")

// CacheEntry is a cached JSON payload.
type CacheEntry struct {
	Name      string
	Payload   []byte
	FetchedAt time.Time
}

// Store is a string key/value store with a side table for cached payloads.
// SetMany and Delete apply all their keys atomically.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	GetCache(ctx context.Context, name string) (CacheEntry, error)
	PutCache(ctx context.Context, name string, payload []byte) error
	Close() error
}

// GetOr returns the value for key or def when it is absent.
func GetOr(ctx context.Context, s Store, key, def string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return v, nil
}
