package repository

import (
	"context"
	"strings"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/database"
	"github.com/Iceblockp/mini-shop-pos/internal/inventory"
	"github.com/Iceblockp/mini-shop-pos/internal/inventory/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	productrepo "github.com/Iceblockp/mini-shop-pos/internal/product/repository"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) WithTx(ctx context.Context, fn func(context.Context, inventory.TxRepository) error) error {
	return database.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *SQLiteRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, error) {
	conditions := []string{"product_id = :product_id"}
	args := map[string]interface{}{"product_id": f.ProductID}

	if f.From != nil {
		conditions = append(conditions, "timestamp >= :from")
		args["from"] = f.From.UTC()
	}
	if f.To != nil {
		conditions = append(conditions, "timestamp <= :to")
		args["to"] = f.To.UTC()
	}

	query := "SELECT * FROM inventory_movements WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY timestamp ASC, id ASC"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperror.Storage("inventory.ListMovements", err)
	}
	defer nstmt.Close()

	movements := []model.InventoryMovement{}
	if err := nstmt.SelectContext(ctx, &movements, args); err != nil {
		return nil, apperror.Storage("inventory.ListMovements", err)
	}
	return movements, nil
}

func (r *SQLiteRepository) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	query := `SELECT * FROM products WHERE stock_quantity <= ? ORDER BY stock_quantity ASC, id ASC`
	if err := r.DB.SelectContext(ctx, &products, query, threshold); err != nil {
		return nil, apperror.Storage("inventory.ListLowStock", err)
	}
	return products, nil
}

type txRepo struct {
	tx *sqlx.Tx
}

func (t *txRepo) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return productrepo.Get(ctx, t.tx, id)
}

func (t *txRepo) UpdateProduct(ctx context.Context, p *model.Product) error {
	return productrepo.Replace(ctx, t.tx, p)
}

func (t *txRepo) InsertMovement(ctx context.Context, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            product_id, adjustment_type, quantity, reason, previous_stock, new_stock, timestamp
        )
        VALUES (
            :product_id, :adjustment_type, :quantity, :reason, :previous_stock, :new_stock, :timestamp
        )
    `
	res, err := t.tx.NamedExecContext(ctx, query, m)
	if err != nil {
		return apperror.Storage("inventory.InsertMovement", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.Storage("inventory.InsertMovement", err)
	}
	m.ID = id
	return nil
}
