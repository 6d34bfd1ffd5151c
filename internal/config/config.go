package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server Server `yaml:"server"`
}

type Server struct {
	ListenAddr     string `yaml:"listenAddr"`
	DatabaseDriver string `yaml:"databaseDriver"` // postgres, sqlite
	PostgresDsn    string `yaml:"postgresDsn"`
	SQLitePath     string `yaml:"sqlitePath"`

	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	MemcachedAddr string        `yaml:"memcachedAddr"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`

	EnableTrace   bool   `yaml:"enableTrace"`
	TraceExporter string `yaml:"traceExporter"` // otlp, stdout
	TraceEndpoint string `yaml:"traceEndpoint"`

	LogLevel string `yaml:"logLevel"`
}

// Defaults returns a configuration usable for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			ListenAddr:     ":8000",
			DatabaseDriver: DriverPostgres,
			SQLitePath:     "rdmc.db",
			CacheTTL:       30 * time.Second,
			TraceExporter:  "otlp",
			TraceEndpoint:  "localhost:4318",
			LogLevel:       "info",
		},
	}
}

// Load reads the YAML file at path on top of Defaults.
func Load(path string) (Config, error) {
	config := Defaults()

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return config, nil
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	switch c.Server.DatabaseDriver {
	case DriverPostgres:
		if c.Server.PostgresDsn == "" {
			return fmt.Errorf("postgresDsn is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
		if c.Server.SQLitePath == "" {
			return fmt.Errorf("sqlitePath is required for the %s driver", DriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Server.DatabaseDriver)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("listenAddr is required")
	}
	return nil
}
