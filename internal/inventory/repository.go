package inventory

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/inventory/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
)

type Repository interface {
	// WithTx runs fn in one unit of work; any error rolls back every write made through tx.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
}

// TxRepository exposes the writes an adjustment makes inside its unit of work.
type TxRepository interface {
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	InsertMovement(ctx context.Context, movement *model.InventoryMovement) error
}
