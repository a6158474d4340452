package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const connectTimeout = 5 * time.Second

// NewPostgresDB opens the pool and waits for the first successful ping.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s@%s:%d: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}

	return db, nil
}

func configurePool(db *sqlx.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	idle := cfg.MaxIdleConns
	if idle > cfg.MaxOpenConns {
		idle = cfg.MaxOpenConns
	}
	db.SetMaxIdleConns(idle)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
