package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache used when no memcached server is configured.
type Memory struct {
	store *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := m.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	return value.([]byte), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.store.SetDefault(key, value)
	return nil
}

func (m *Memory) Add(ctx context.Context, key string, value []byte) error {
	// go-cache reports an existing entry as an error; that is the expected outcome here
	_ = m.store.Add(key, value, gocache.DefaultExpiration)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.store.Delete(key)
	return nil
}
