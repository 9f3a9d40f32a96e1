package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
	TransactionRefunded  TransactionStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// Transaction is an immutable sale record. Items carry name and price as they were at checkout.
type Transaction struct {
	ID          int64             `db:"id" json:"id"`
	ReceiptNo   string            `db:"receipt_no" json:"receipt_no"`
	Items       TransactionItems  `db:"items" json:"items"`
	TotalAmount decimal.Decimal   `db:"total_amount" json:"total_amount"`
	Payment     PaymentDetails    `db:"payment" json:"payment"`
	Timestamp   time.Time         `db:"timestamp" json:"timestamp"`
	Status      TransactionStatus `db:"status" json:"status"`
	CustomerID  *string           `db:"customer_id" json:"customer_id"`
	Notes       *string           `db:"notes" json:"notes"`
}

type TransactionItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type TransactionItems []TransactionItem

func (items TransactionItems) Value() (driver.Value, error) {
	if items == nil {
		items = TransactionItems{}
	}
	data, err := json.Marshal([]TransactionItem(items))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (items *TransactionItems) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("model: scan transaction items: %w", err)
	}
	var out []TransactionItem
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("model: scan transaction items: %w", err)
		}
	}
	*items = out
	return nil
}

// PaymentDetails holds the method-specific fields: cash uses Amount and Change,
// card uses CardLastFourDigits, mobile uses MobilePaymentReference.
type PaymentDetails struct {
	Method                 PaymentMethod    `json:"method"`
	Amount                 decimal.Decimal  `json:"amount"`
	Change                 *decimal.Decimal `json:"change,omitempty"`
	CardLastFourDigits     string           `json:"card_last_four_digits,omitempty"`
	MobilePaymentReference string           `json:"mobile_payment_reference,omitempty"`
}

func (p PaymentDetails) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *PaymentDetails) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("model: scan payment: %w", err)
	}
	if len(data) == 0 {
		*p = PaymentDetails{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("model: scan payment: %w", err)
	}
	return nil
}
