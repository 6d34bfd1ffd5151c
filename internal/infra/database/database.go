package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/totegamma/rdmc-registry/internal/config"
	"github.com/totegamma/rdmc-registry/internal/infra/database/models"
	"github.com/totegamma/rdmc-registry/internal/logging"
)

// NewDatabase opens the database selected by conf.
func NewDatabase(conf config.Server, log *zap.Logger) (*gorm.DB, error) {
	switch conf.DatabaseDriver {
	case config.DriverPostgres:
		return NewPostgres(conf.PostgresDsn, log)
	case config.DriverSQLite:
		return NewSQLite(conf.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.DatabaseDriver)
	}
}

func NewPostgres(dsn string, log *zap.Logger) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig(log))
}

// NewSQLite opens a SQLite database file with foreign keys enforced, so
// contributor rows cascade with their parent as they do on PostgreSQL.
func NewSQLite(path string, log *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	return gorm.Open(sqlite.Open(dsn), gormConfig(log))
}

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logging.NewGormLogger(log),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Rdmc{},
		&models.RdmcContributor{},
	)
}
