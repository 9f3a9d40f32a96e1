package product

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// Case-insensitive substring match over name, SKU, category and barcode.
	SearchProducts(ctx context.Context, query string) ([]model.Product, error)
}
