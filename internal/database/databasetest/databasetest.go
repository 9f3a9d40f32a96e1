// Package databasetest opens throwaway migrated stores for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/database"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Config returns a store config pointing at a fresh file under t.TempDir().
func Config(t testing.TB) config.SQLiteConfig {
	t.Helper()
	return config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "pos.sqlite"),
		BusyTimeout:  5 * time.Second,
		JournalMode:  "WAL",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

// Open returns a migrated handle that is closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), Config(t), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
