package dto

import (
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/shopspring/decimal"
)

type RankBy string

const (
	RankByQuantity RankBy = "quantity"
	RankByRevenue  RankBy = "revenue"
)

type DailySales struct {
	Date       string          `json:"date"` // YYYY-MM-DD in the report timezone
	Start      time.Time       `json:"start"`
	TotalSales decimal.Decimal `json:"total_sales"`
	Count      int             `json:"count"`
}

type ProductSales struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"` // Name on the most recent sale
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type Dashboard struct {
	Date              string          `json:"date"`
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayCount        int             `json:"today_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TopProducts       []ProductSales  `json:"top_products"` // By quantity sold today
	LowStock          []model.Product `json:"low_stock"`
}

type Summary struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TransactionCount  int             `json:"transaction_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ProductCount      int             `json:"product_count"`
	TopProducts       []ProductSales  `json:"top_products"` // By revenue
	LowStock          []model.Product `json:"low_stock"`
}
