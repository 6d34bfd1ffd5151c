package database

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/totegamma/rdmc-registry/internal/config"
)

const memcachedTimeout = 500 * time.Millisecond

// NewMemcached returns the detail cache client, or nil when no memcached
// address is configured.
func NewMemcached(conf config.Server) *memcache.Client {
	if conf.MemcachedAddr == "" {
		return nil
	}
	client := memcache.New(conf.MemcachedAddr)
	client.Timeout = memcachedTimeout
	return client
}
