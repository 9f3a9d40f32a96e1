package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/database"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            name, sku, description, price, cost_price, category, category_id,
            stock_quantity, barcode, supplier, image_url, bulk_prices, promotion,
            created_at, updated_at
        )
        VALUES (
            :name, :sku, :description, :price, :cost_price, :category, :category_id,
            :stock_quantity, :barcode, :supplier, :image_url, :bulk_prices, :promotion,
            :created_at, :updated_at
        )
    `
	res, err := r.DB.NamedExecContext(ctx, query, p)
	if err != nil {
		return mapWriteError("product.Create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.Storage("product.Create", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	return Get(ctx, r.DB, id)
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	conditions := []string{}
	args := map[string]interface{}{}
	orderBy := " ORDER BY id ASC"

	if f != nil {
		if f.CategoryID != nil {
			conditions = append(conditions, "category_id = :category_id")
			args["category_id"] = *f.CategoryID
		}
		if f.MaxStock != nil {
			conditions = append(conditions, "stock_quantity <= :max_stock")
			args["max_stock"] = *f.MaxStock
		}
		if col, ok := sortColumns[f.SortBy]; ok {
			direction := "ASC"
			if strings.EqualFold(f.SortOrder, "desc") {
				direction = "DESC"
			}
			orderBy = fmt.Sprintf(" ORDER BY %s %s, id ASC", col, direction)
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := "SELECT * FROM products" + whereClause + orderBy

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperror.Storage("product.FindAll", err)
	}
	defer nstmt.Close()

	products := []model.Product{}
	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, apperror.Storage("product.FindAll", err)
	}
	return products, nil
}

// Prices are stored as decimal text, so numeric ordering needs a cast.
var sortColumns = map[string]string{
	"name":       "name COLLATE NOCASE",
	"price":      "CAST(price AS REAL)",
	"stock":      "stock_quantity",
	"created_at": "created_at",
}

func (r *SQLiteRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE barcode = ? ORDER BY id ASC LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage("product.FindByBarcode", err)
	}
	return &product, nil
}

func (r *SQLiteRepository) FindByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return r.FindAll(ctx, &dto.ProductFilters{CategoryID: &categoryID})
}

func (r *SQLiteRepository) Update(ctx context.Context, p *model.Product) error {
	return Replace(ctx, r.DB, p)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return apperror.Storage("product.Delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage("product.Delete", err)
	}
	if n == 0 {
		return apperror.NotFound("product.Delete", "product", id)
	}
	return nil
}

func (r *SQLiteRepository) CountByCategory(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		CategoryID int64 `db:"category_id"`
		Count      int   `db:"n"`
	}
	query := `SELECT category_id, count(*) AS n FROM products WHERE category_id IS NOT NULL GROUP BY category_id`
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Storage("product.CountByCategory", err)
	}
	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

// Get reads one product through q, which may be the pool or an open unit of work.
// A missing product is reported as nil, nil.
func Get(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Product, error) {
	var product model.Product
	err := sqlx.GetContext(ctx, q, &product, `SELECT * FROM products WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage("product.Get", err)
	}
	return &product, nil
}

// Replace overwrites every stored field of p. It fails with NotFound when no row has p.ID.
func Replace(ctx context.Context, e sqlx.ExtContext, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            sku = :sku,
            description = :description,
            price = :price,
            cost_price = :cost_price,
            category = :category,
            category_id = :category_id,
            stock_quantity = :stock_quantity,
            barcode = :barcode,
            supplier = :supplier,
            image_url = :image_url,
            bulk_prices = :bulk_prices,
            promotion = :promotion,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := sqlx.NamedExecContext(ctx, e, query, p)
	if err != nil {
		return mapWriteError("product.Update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage("product.Update", err)
	}
	if n == 0 {
		return apperror.NotFound("product.Update", "product", p.ID)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	if column, ok := database.IsUniqueViolation(err); ok {
		return apperror.DuplicateKey(op, "product", column, err)
	}
	return apperror.Storage(op, err)
}
