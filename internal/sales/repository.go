package sales

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/sales/dto"
)

type Repository interface {
	// WithTx runs fn in one unit of work spanning transactions and products.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	FindByID(ctx context.Context, id int64) (*model.Transaction, error)
	FindAll(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error)
}

type TxRepository interface {
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
}
