package dto

import (
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	ProductID int64 `validate:"required,gt=0"`
	Quantity  int   `validate:"gt=0"`
	UnitPrice *decimal.Decimal // Nil charges the product's effective price
}

type PaymentInput struct {
	Method                 model.PaymentMethod `validate:"required,oneof=cash card mobile"`
	Amount                 decimal.Decimal     // Cash tendered; ignored for card and mobile
	CardLastFourDigits     string
	MobilePaymentReference string `validate:"max=100"`
}

type CheckoutInput struct {
	Items      []CheckoutItem `validate:"required,min=1,dive"`
	Payment    PaymentInput
	CustomerID string `validate:"max=64"`
	Notes      string `validate:"max=500"`
}
