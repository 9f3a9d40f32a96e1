package report

import (
	"context"
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/report/dto"
)

type UseCase interface {
	// DailySales buckets completed sales in [from, to) per calendar day, empty days included.
	DailySales(ctx context.Context, from, to time.Time) ([]dto.DailySales, error)
	TopProducts(ctx context.Context, n int, by dto.RankBy) ([]dto.ProductSales, error)
	Dashboard(ctx context.Context, now time.Time) (*dto.Dashboard, error)
	Summary(ctx context.Context) (*dto.Summary, error)
}
