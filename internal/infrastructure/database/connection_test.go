package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/adapters/persistence"
	"github.com/andrescamacho/orbit-go/internal/infrastructure/config"
)

func TestNewConnection_SQLiteFileIsCreatedAndMigrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")

	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	defer Close(db)

	assert.FileExists(t, path)
	for _, model := range []interface{}{
		&persistence.ProjectRunModel{},
		&persistence.PhaseResultModel{},
		&persistence.ActionLogModel{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestNewConnection_SkipMigrate(t *testing.T) {
	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: ":memory:", SkipMigrate: true})
	require.NoError(t, err)
	defer Close(db)

	assert.False(t, db.Migrator().HasTable(&persistence.ProjectRunModel{}))
}

func TestNewConnection_UnsupportedType(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: "mysql"})
	assert.EqualError(t, err, "unsupported database type: mysql")
}
