package model

import "time"

type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "add"
	AdjustmentRemove AdjustmentType = "remove"
)

// InventoryMovement is an append-only audit entry for one stock change.
// Quantity is the magnitude; the direction is AdjustmentType.
type InventoryMovement struct {
	ID             int64          `db:"id" json:"id"`
	ProductID      int64          `db:"product_id" json:"product_id"`
	AdjustmentType AdjustmentType `db:"adjustment_type" json:"adjustment_type"`
	Quantity       int            `db:"quantity" json:"quantity"`
	Reason         string         `db:"reason" json:"reason"`
	PreviousStock  int            `db:"previous_stock" json:"previous_stock"`
	NewStock       int            `db:"new_stock" json:"new_stock"`
	Timestamp      time.Time      `db:"timestamp" json:"timestamp"`
}

type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertOutOfStock AlertType = "out_of_stock"
)

type InventoryAlert struct {
	ProductID    int64     `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Type         AlertType `json:"type"`
	Threshold    int       `json:"threshold"`
	CurrentStock int       `json:"current_stock"`
	Timestamp    time.Time `json:"timestamp"`
}
