package database

import (
	"context"
	"fmt"

	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const driverName = "sqlite"

// NewSQLite opens the embedded database file. The schema is not touched; see Open.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", cfg.Path, err)
	}

	// A single writer connection keeps units of work strictly serialized.
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", cfg.Path, err)
	}
	return db, nil
}

// Open returns a ready handle: the file is opened and migrated to the latest schema.
// It is safe to call on every application start. The caller owns the handle and must Close it.
func Open(ctx context.Context, cfg config.SQLiteConfig, log logger.ZapLogger) (*sqlx.DB, error) {
	db, err := NewSQLite(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Embedded store ready", zap.String("path", cfg.Path), zap.Int("schema_version", LatestVersion()))
	return db, nil
}
