package database

import (
	"github.com/redis/go-redis/v9"

	"github.com/totegamma/rdmc-registry/internal/config"
)

// NewRedis returns the client used for ingest signals, or nil when no
// redis address is configured.
func NewRedis(conf config.Server) *redis.Client {
	if conf.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
}
