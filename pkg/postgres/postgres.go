package postgres

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	URL             string `envconfig:"DATABASE_URL"`
	MaxIdleConns    int    `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	MaxOpenConns    int    `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"20"`
	ConnMaxLifetime string `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1h"`
}

// New opens a pooled gorm connection. SQL logging stays at warn so turn
// traffic does not flood the console.
func (c *Config) New() (*gorm.DB, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := gorm.Open(postgres.Open(c.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)

	lifetime, err := time.ParseDuration(c.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_CONN_MAX_LIFETIME %q: %w", c.ConnMaxLifetime, err)
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	return db, nil
}
