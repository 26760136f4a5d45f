package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/orbit-go/internal/adapters/persistence"
	"github.com/andrescamacho/orbit-go/internal/infrastructure/config"
)

const memoryPath = ":memory:"

// NewConnection opens the run history database and, unless SkipMigrate is
// set, creates its tables
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if cfg.Type == "sqlite" {
		// one connection: SQLite serializes writers and :memory: is per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	}

	if !cfg.SkipMigrate {
		if err := AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate run tables: %w", err)
		}
	}
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = memoryPath
		}
		if path != memoryPath {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
}

// NewTestConnection opens a migrated in-memory SQLite database
func NewTestConnection() (*gorm.DB, error) {
	return NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: memoryPath})
}

// AutoMigrate creates or updates the run history tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.ProjectRunModel{},
		&persistence.PhaseResultModel{},
		&persistence.ActionLogModel{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
