package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `db:"name" json:"name"`
	SKU           string          `db:"sku" json:"sku"`
	Description   string          `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	CostPrice     decimal.Decimal `db:"cost_price" json:"cost_price"`
	Category      string          `db:"category" json:"category"`       // Snapshot of the category name
	CategoryID    *int64          `db:"category_id" json:"category_id"` // Nullable
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	Barcode       *string         `db:"barcode" json:"barcode"`
	Supplier      *string         `db:"supplier" json:"supplier"`
	ImageURL      *string         `db:"image_url" json:"image_url"`
	BulkPrices    BulkPrices      `db:"bulk_prices" json:"bulk_prices"`
	Promotion     *Promotion      `db:"promotion" json:"promotion"`
}

// BulkPrice applies Price per unit once the purchased quantity reaches Quantity.
type BulkPrice struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// BulkPrices is stored as a JSON array, tiers kept in the order they were entered.
type BulkPrices []BulkPrice

func (b BulkPrices) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]BulkPrice(b))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *BulkPrices) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("model: scan bulk prices: %w", err)
	}
	if len(data) == 0 {
		*b = nil
		return nil
	}
	var tiers []BulkPrice
	if err := json.Unmarshal(data, &tiers); err != nil {
		return fmt.Errorf("model: scan bulk prices: %w", err)
	}
	if len(tiers) == 0 {
		tiers = nil
	}
	*b = tiers
	return nil
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Promotion struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// Value stores the promotion as JSON. A nil *Promotion is written as NULL.
func (p Promotion) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *Promotion) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("model: scan promotion: %w", err)
	}
	if len(data) == 0 {
		*p = Promotion{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("model: scan promotion: %w", err)
	}
	return nil
}

// Active reports whether at falls inside the promotion window, both ends inclusive.
func (p *Promotion) Active(at time.Time) bool {
	if p == nil {
		return false
	}
	return !at.Before(p.StartDate) && !at.After(p.EndDate)
}

// Apply discounts price, never below zero.
func (p *Promotion) Apply(price decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		factor := decimal.NewFromInt(100).Sub(p.DiscountValue).Div(decimal.NewFromInt(100))
		discounted = price.Mul(factor)
	case DiscountFixed:
		discounted = price.Sub(p.DiscountValue)
	default:
		return price
	}
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted.Round(2)
}

// EffectivePrice is the unit price for buying quantity units at the given time.
// The highest bulk tier whose threshold is reached replaces the list price, then an
// active promotion is applied on top.
func (p *Product) EffectivePrice(quantity int, at time.Time) decimal.Decimal {
	price := p.Price
	best := 0
	for _, tier := range p.BulkPrices {
		if tier.Quantity <= quantity && tier.Quantity > best {
			best = tier.Quantity
			price = tier.Price
		}
	}
	if p.Promotion.Active(at) {
		price = p.Promotion.Apply(price)
	}
	return price
}

func (p *Product) BarcodeValue() string {
	if p.Barcode == nil {
		return ""
	}
	return *p.Barcode
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}
