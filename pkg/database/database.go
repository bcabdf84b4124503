// Package database holds the PostgreSQL connection collaborator. The catalog
// keeps its data in memory; nothing on the core path opens a connection.
package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMissingHost indicates a config without a host.
var ErrMissingHost = errors.New("database: host is required")

// Config describes the connection target. A zero Port leaves the driver
// default in place.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     uint16 `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// ConnectionString renders cfg in libpq keyword/value form.
func (cfg Config) ConnectionString() string {
	parts := []string{"host=" + quote(cfg.Host)}
	if cfg.Port != 0 {
		parts = append(parts, "port="+strconv.Itoa(int(cfg.Port)))
	}
	parts = append(parts,
		"user="+quote(cfg.User),
		"password="+quote(cfg.Password),
		"dbname="+quote(cfg.Name),
	)
	return strings.Join(parts, " ")
}

func quote(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}

// Connection pairs a pool with the string it was built from.
type Connection struct {
	Pool             *pgxpool.Pool
	ConnectionString string
}

// Open builds a pool for cfg. The pool dials lazily, so Open succeeds
// without a reachable server.
func Open(ctx context.Context, cfg Config) (*Connection, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	connString := cfg.ConnectionString()
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("database: parse config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("database: new pool: %w", err)
	}
	return &Connection{Pool: pool, ConnectionString: connString}, nil
}

// Close releases the pool. It is safe on a nil connection.
func (c *Connection) Close() {
	if c == nil || c.Pool == nil {
		return
	}
	c.Pool.Close()
}
