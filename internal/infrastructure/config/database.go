package config

import (
	"fmt"
	"time"
)

// DatabaseConfig selects where run history is kept. SQLite is the default;
// postgres is chosen with type: postgres or DATABASE_URL.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Path of the SQLite file. ":memory:" keeps history for one process.
	Path string `mapstructure:"path" validate:"required_if=Type sqlite"`

	// URL is a postgres DSN and wins over the Postgres fields
	URL      string         `mapstructure:"url"`
	Postgres PostgresConfig `mapstructure:"postgres"`

	// SkipMigrate leaves the run tables alone on connect
	SkipMigrate bool `mapstructure:"skip_migrate"`

	Pool PoolConfig `mapstructure:"pool"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}

type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN is the postgres connection string: URL when set, otherwise the
// keyword form of the Postgres fields
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	p := c.Postgres
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SSLMode)
}

// Masked returns a copy with credentials replaced, for display
func (c DatabaseConfig) Masked() DatabaseConfig {
	const mask = "********"
	if c.URL != "" {
		c.URL = mask
	}
	if c.Postgres.Password != "" {
		c.Postgres.Password = mask
	}
	return c
}
