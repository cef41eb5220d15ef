package localstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	kv    map[string]string
	cache map[string]CacheEntry
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{kv: make(map[string]string), cache: make(map[string]CacheEntry)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	if !ok {
		return "", fmt.Errorf("localstore: get %s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	return m.SetMany(ctx, map[string]string{key: value})
}

func (m *Memory) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.kv[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.kv, k)
	}
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv = make(map[string]string)
	m.cache = make(map[string]CacheEntry)
	return nil
}

func (m *Memory) GetCache(_ context.Context, name string) (CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.cache[name]
	if !ok {
		return CacheEntry{}, fmt.Errorf("localstore: get cache %s: %w", name, ErrNotFound)
	}
	e.Payload = append([]byte(nil), e.Payload...)
	return e, nil
}

func (m *Memory) PutCache(_ context.Context, name string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[name] = CacheEntry{Name: name, Payload: append([]byte(nil), payload...), FetchedAt: time.Now()}
	return nil
}

func (m *Memory) Close() error { return nil }
