package product

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error

	// Number of products per category id; uncategorized products are not counted.
	CountByCategory(ctx context.Context) (map[int64]int, error)
}

// CategoryReader resolves the category a product is filed under.
type CategoryReader interface {
	FindByID(ctx context.Context, id int64) (*model.Category, error)
}
