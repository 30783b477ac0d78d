// Package repository implements the Postgres-backed generation store.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver registration
	"go.uber.org/zap"

	"fxdesk/internal/config"
)

const connectTimeout = 5 * time.Second

// Open connects to dsn through pgx and brings the schema up to date.
func Open(ctx context.Context, dsn string, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := RunMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run DB migrations: %w", err)
	}
	return db, nil
}

// NewPostgresDB opens the pool described by cfg and returns the store on top of it.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.SugaredLogger) (*sql.DB, *PostgresSnapshotStore, error) {
	db, err := Open(ctx, cfg.DSN, logger)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)

	return db, NewPostgresSnapshotStore(db), nil
}
