package dto

import "github.com/Iceblockp/mini-shop-pos/internal/model"

type AdjustStockInput struct {
	ProductID int64                `validate:"required,gt=0"`
	Quantity  int                  `validate:"gt=0"` // Magnitude; direction comes from Type
	Reason    string               `validate:"required,max=500"`
	Type      model.AdjustmentType `validate:"required,oneof=add remove"`
}
