package inventory

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/inventory/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
}
