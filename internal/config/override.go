package config

import (
	"github.com/spf13/viper"
)

// envBindings maps configuration keys to the environment variables that
// override them. DATABASE_URL is kept for existing deployments.
var envBindings = map[string][]string{
	"listenAddr":     {"RDMC_LISTEN_ADDR"},
	"databaseDriver": {"RDMC_DATABASE_DRIVER"},
	"postgresDsn":    {"RDMC_POSTGRES_DSN", "DATABASE_URL"},
	"sqlitePath":     {"RDMC_SQLITE_PATH"},
	"redisAddr":      {"RDMC_REDIS_ADDR"},
	"redisPassword":  {"RDMC_REDIS_PASSWORD"},
	"redisDB":        {"RDMC_REDIS_DB"},
	"memcachedAddr":  {"RDMC_MEMCACHED_ADDR"},
	"cacheTTL":       {"RDMC_CACHE_TTL"},
	"enableTrace":    {"RDMC_ENABLE_TRACE"},
	"traceExporter":  {"RDMC_TRACE_EXPORTER"},
	"traceEndpoint":  {"RDMC_TRACE_ENDPOINT"},
	"logLevel":       {"RDMC_LOG_LEVEL"},
}

// BindEnv registers the environment overrides on v.
func BindEnv(v *viper.Viper) error {
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// Override replaces every value that v has explicitly set, from the
// environment or from a changed command line flag.
func (c *Config) Override(v *viper.Viper) {
	s := &c.Server

	if v.IsSet("listenAddr") {
		s.ListenAddr = v.GetString("listenAddr")
	}
	if v.IsSet("databaseDriver") {
		s.DatabaseDriver = v.GetString("databaseDriver")
	}
	if v.IsSet("postgresDsn") {
		s.PostgresDsn = v.GetString("postgresDsn")
	}
	if v.IsSet("sqlitePath") {
		s.SQLitePath = v.GetString("sqlitePath")
	}
	if v.IsSet("redisAddr") {
		s.RedisAddr = v.GetString("redisAddr")
	}
	if v.IsSet("redisPassword") {
		s.RedisPassword = v.GetString("redisPassword")
	}
	if v.IsSet("redisDB") {
		s.RedisDB = v.GetInt("redisDB")
	}
	if v.IsSet("memcachedAddr") {
		s.MemcachedAddr = v.GetString("memcachedAddr")
	}
	if v.IsSet("cacheTTL") {
		s.CacheTTL = v.GetDuration("cacheTTL")
	}
	if v.IsSet("enableTrace") {
		s.EnableTrace = v.GetBool("enableTrace")
	}
	if v.IsSet("traceExporter") {
		s.TraceExporter = v.GetString("traceExporter")
	}
	if v.IsSet("traceEndpoint") {
		s.TraceEndpoint = v.GetString("traceEndpoint")
	}
	if v.IsSet("logLevel") {
		s.LogLevel = v.GetString("logLevel")
	}
}
