package report

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
	productdto "github.com/Iceblockp/mini-shop-pos/internal/product/dto"
	salesdto "github.com/Iceblockp/mini-shop-pos/internal/sales/dto"
)

// ProductReader is served by the product use case so category names are current.
type ProductReader interface {
	ListProducts(ctx context.Context, filters *productdto.ProductFilters) ([]model.Product, error)
}

// TransactionReader is served by the transaction store directly.

type TransactionReader interface {
	FindAll(ctx context.Context, filters *salesdto.TransactionFilters) ([]model.Transaction, error)
}
