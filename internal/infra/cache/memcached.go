package cache

import (
	"context"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

// Memcached stores entries in a memcached cluster.
type Memcached struct {
	client *memcache.Client
	ttl    time.Duration
}

func NewMemcached(client *memcache.Client, ttl time.Duration) *Memcached {
	return &Memcached{client: client, ttl: ttl}
}

func (m *Memcached) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "memcached get")
	}
	return item.Value, true, nil
}

func (m *Memcached) Set(ctx context.Context, key string, value []byte) error {
	err := m.client.Set(m.item(key, value))
	if err != nil {
		return errors.Wrap(err, "memcached set")
	}
	return nil
}

func (m *Memcached) Add(ctx context.Context, key string, value []byte) error {
	err := m.client.Add(m.item(key, value))
	if err != nil && !errors.Is(err, memcache.ErrNotStored) {
		return errors.Wrap(err, "memcached add")
	}
	return nil
}

func (m *Memcached) Delete(ctx context.Context, key string) error {
	err := m.client.Delete(key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return errors.Wrap(err, "memcached delete")
	}
	return nil
}

func (m *Memcached) item(key string, value []byte) *memcache.Item {
	return &memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(m.ttl / time.Second),
	}
}
