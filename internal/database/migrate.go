package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrSchemaTooNew is returned when the file was written by a newer build.
var ErrSchemaTooNew = errors.New("database: schema version is newer than this build supports")

type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sqlx.Tx) error
}

// Versions only ever append. Every step must be additive and re-runnable.
var migrations = []migration{
	{version: 1, name: "create record stores", up: createRecordStores},
	{version: 2, name: "supplier, image and receipt columns", up: addSupplierAndReceiptColumns},
}

func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// Version reads the schema version stored in the database header.
func Version(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var v int
	if err := sqlx.GetContext(ctx, q, &v, "PRAGMA user_version"); err != nil {
		return 0, fmt.Errorf("database: read schema version: %w", err)
	}
	return v, nil
}

// Migrate brings the schema up to LatestVersion. Each version is applied in its own
// transaction together with the version bump, so a failed step leaves the previous
// schema intact.
func Migrate(ctx context.Context, db *sqlx.DB, log logger.ZapLogger) error {
	current, err := Version(ctx, db)
	if err != nil {
		return err
	}
	if current > LatestVersion() {
		return fmt.Errorf("%w: found %d, latest %d", ErrSchemaTooNew, current, LatestVersion())
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
			if err := m.up(ctx, tx); err != nil {
				return err
			}
			// PRAGMA does not accept bind parameters.
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version))
			return err
		})
		if err != nil {
			return fmt.Errorf("database: migrate to v%d (%s): %w", m.version, m.name, err)
		}
		log.Info("Applied schema migration", zap.Int("version", m.version), zap.String("name", m.name))
	}
	return nil
}

func execAll(ctx context.Context, tx *sqlx.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func createRecordStores(ctx context.Context, tx *sqlx.Tx) error {
	return execAll(ctx, tx, []string{
		`CREATE TABLE IF NOT EXISTS products (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            sku TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price TEXT NOT NULL DEFAULT '0',
            cost_price TEXT NOT NULL DEFAULT '0',
            category TEXT NOT NULL DEFAULT '',
            category_id INTEGER,
            stock_quantity INTEGER NOT NULL DEFAULT 0,
            barcode TEXT,
            bulk_prices TEXT NOT NULL DEFAULT '[]',
            promotion TEXT,
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku ON products (sku)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_price ON products (price)`,
		`CREATE INDEX IF NOT EXISTS idx_products_promotion ON products (promotion)`,

		`CREATE TABLE IF NOT EXISTS inventory_movements (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            product_id INTEGER NOT NULL,
            adjustment_type TEXT NOT NULL CHECK (adjustment_type IN ('add', 'remove')),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            reason TEXT NOT NULL CHECK (reason <> ''),
            previous_stock INTEGER NOT NULL,
            new_stock INTEGER NOT NULL,
            timestamp DATETIME NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_movements_product_id ON inventory_movements (product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_movements_timestamp ON inventory_movements (timestamp)`,

		`CREATE TABLE IF NOT EXISTS transactions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            items TEXT NOT NULL,
            total_amount TEXT NOT NULL,
            payment TEXT NOT NULL,
            timestamp DATETIME NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('completed', 'cancelled', 'refunded'))
        )`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions (timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions (status)`,

		`CREATE TABLE IF NOT EXISTS categories (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            parent_id INTEGER,
            description TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories (name)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories (parent_id)`,
	})
}

func addSupplierAndReceiptColumns(ctx context.Context, tx *sqlx.Tx) error {
	columns := []struct{ table, column, ddl string }{
		{"products", "supplier", "TEXT"},
		{"products", "image_url", "TEXT"},
		{"transactions", "receipt_no", "TEXT"},
		{"transactions", "customer_id", "TEXT"},
		{"transactions", "notes", "TEXT"},
	}
	for _, c := range columns {
		if err := addColumnIfMissing(ctx, tx, c.table, c.column, c.ddl); err != nil {
			return err
		}
	}
	return execAll(ctx, tx, []string{
		`CREATE INDEX IF NOT EXISTS idx_products_barcode ON products (barcode)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_receipt_no ON transactions (receipt_no)`,
	})
}

// addColumnIfMissing makes ALTER TABLE ADD COLUMN re-runnable; SQLite has no IF NOT EXISTS for it.
func addColumnIfMissing(ctx context.Context, tx *sqlx.Tx, table, column, ddl string) error {
	var n int
	err := tx.GetContext(ctx, &n, `SELECT count(*) FROM pragma_table_info(?) WHERE name = ?`, table, column)
	if err != nil {
		return fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)); err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}
