package dto

import (
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name          string `validate:"required,max=200"`
	SKU           string `validate:"required,max=64"`
	Description   string `validate:"max=1000"`
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	CategoryID    *int64 `validate:"omitempty,gt=0"`
	StockQuantity int    `validate:"gte=0"`
	Barcode       string `validate:"max=64"`
	Supplier      string `validate:"max=200"`
	ImageURL      string `validate:"omitempty,url"`
	BulkPrices    model.BulkPrices
	Promotion     *model.Promotion
}

// UpdateProductInput is a full replacement of the stored product.
type UpdateProductInput struct {
	ID            int64  `validate:"required,gt=0"`
	Name          string `validate:"required,max=200"`
	SKU           string `validate:"required,max=64"`
	Description   string `validate:"max=1000"`
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	CategoryID    *int64 `validate:"omitempty,gt=0"`
	StockQuantity int    `validate:"gte=0"`
	Barcode       string `validate:"max=64"`
	Supplier      string `validate:"max=200"`
	ImageURL      string `validate:"omitempty,url"`
	BulkPrices    model.BulkPrices
	Promotion     *model.Promotion
}
