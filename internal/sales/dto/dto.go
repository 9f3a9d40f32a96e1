package dto

import (
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/shopspring/decimal"
)

type TransactionFilters struct {
	From          *time.Time // Inclusive
	To            *time.Time // Exclusive
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	PaymentMethod model.PaymentMethod
	Status        model.TransactionStatus
	SortBy        string // date, amount; empty keeps insertion order
	SortOrder     string // asc, desc
}
