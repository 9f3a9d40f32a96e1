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
	productrepo "github.com/Iceblockp/mini-shop-pos/internal/product/repository"
	"github.com/Iceblockp/mini-shop-pos/internal/sales"
	"github.com/Iceblockp/mini-shop-pos/internal/sales/dto"
	"github.com/jmoiron/sqlx"
)

// Rows written before receipt numbers existed have none.
const transactionColumns = `id, COALESCE(receipt_no, '') AS receipt_no, items, total_amount, payment,
    timestamp, status, customer_id, notes`

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) WithTx(ctx context.Context, fn func(context.Context, sales.TxRepository) error) error {
	return database.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var txn model.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? LIMIT 1`
	err := r.DB.GetContext(ctx, &txn, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage("transaction.FindByID", err)
	}
	return &txn, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, error) {
	conditions := []string{}
	args := map[string]interface{}{}
	orderBy := " ORDER BY id ASC"

	if f != nil {
		if f.From != nil {
			conditions = append(conditions, "timestamp >= :from")
			args["from"] = f.From.UTC()
		}
		if f.To != nil {
			conditions = append(conditions, "timestamp < :to")
			args["to"] = f.To.UTC()
		}
		if f.MinAmount != nil {
			conditions = append(conditions, "CAST(total_amount AS REAL) >= :min_amount")
			args["min_amount"] = f.MinAmount.InexactFloat64()
		}
		if f.MaxAmount != nil {
			conditions = append(conditions, "CAST(total_amount AS REAL) <= :max_amount")
			args["max_amount"] = f.MaxAmount.InexactFloat64()
		}
		if f.PaymentMethod != "" {
			conditions = append(conditions, "json_extract(payment, '$.method') = :payment_method")
			args["payment_method"] = string(f.PaymentMethod)
		}
		if f.Status != "" {
			conditions = append(conditions, "status = :status")
			args["status"] = string(f.Status)
		}
		if col, ok := sortColumns[f.SortBy]; ok {
			direction := "ASC"
			if strings.EqualFold(f.SortOrder, "desc") {
				direction = "DESC"
			}
			orderBy = fmt.Sprintf(" ORDER BY %s %s, id %s", col, direction, direction)
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := "SELECT " + transactionColumns + " FROM transactions" + whereClause + orderBy

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperror.Storage("transaction.FindAll", err)
	}
	defer nstmt.Close()

	txns := []model.Transaction{}
	if err := nstmt.SelectContext(ctx, &txns, args); err != nil {
		return nil, apperror.Storage("transaction.FindAll", err)
	}
	return txns, nil
}

var sortColumns = map[string]string{
	"date":   "timestamp",
	"amount": "CAST(total_amount AS REAL)",
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

func (t *txRepo) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	query := `
        INSERT INTO transactions (
            receipt_no, items, total_amount, payment, timestamp, status, customer_id, notes
        )
        VALUES (
            :receipt_no, :items, :total_amount, :payment, :timestamp, :status, :customer_id, :notes
        )
    `
	res, err := t.tx.NamedExecContext(ctx, query, txn)
	if err != nil {
		if column, ok := database.IsUniqueViolation(err); ok {
			return apperror.DuplicateKey("transaction.Insert", "transaction", column, err)
		}
		return apperror.Storage("transaction.Insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.Storage("transaction.Insert", err)
	}
	txn.ID = id
	return nil
}
