// Package database manages the PostgreSQL connection lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/jonesrussell/lead-tracker/internal/config"
	"github.com/jonesrussell/lead-tracker/internal/logger"
)

// pingTimeout bounds connection checks.
const pingTimeout = 5 * time.Second

// DB is the injected store client with an explicit lifecycle: Connect,
// Healthy, Close.
type DB struct {
	db  *sql.DB
	log logger.Logger
}

// Connect opens the connection pool and verifies connectivity.
func Connect(cfg *config.Config, log logger.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("dbname", cfg.Database.Name),
	)

	return &DB{db: db, log: log}, nil
}

// Healthy reports whether the database currently answers a ping.
func (d *DB) Healthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return d.db.PingContext(ctx) == nil
}

// Close releases the connection pool.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// DB exposes the underlying pool for repositories.
func (d *DB) DB() *sql.DB {
	return d.db
}
