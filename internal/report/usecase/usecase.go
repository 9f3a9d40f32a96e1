package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	productdto "github.com/Iceblockp/mini-shop-pos/internal/product/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/report"
	"github.com/Iceblockp/mini-shop-pos/internal/report/dto"
	salesdto "github.com/Iceblockp/mini-shop-pos/internal/sales/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	topProductsLimit = 5
	// Products with fewer units than this are listed as low stock.
	lowStockBelow = 10
	dateLayout    = "2006-01-02"
)

type reportUseCase struct {
	products     report.ProductReader
	transactions report.TransactionReader
	loc          *time.Location
	logger       logger.ZapLogger
}

func NewReportUseCase(products report.ProductReader, transactions report.TransactionReader, cfg config.ReportConfig, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		products:     products,
		transactions: transactions,
		loc:          cfg.Location(),
		logger:       log,
	}
}

func (uc *reportUseCase) DailySales(ctx context.Context, from, to time.Time) ([]dto.DailySales, error) {
	if !to.After(from) {
		return nil, apperror.Validation("report.DailySales", "to", "must be after from")
	}
	txns, err := uc.transactions.FindAll(ctx, completedBetween(&from, &to))
	if err != nil {
		return nil, err
	}

	var days []dto.DailySales
	index := map[string]int{}
	for day := startOfDay(from.In(uc.loc)); day.Before(to); day = day.AddDate(0, 0, 1) {
		index[day.Format(dateLayout)] = len(days)
		days = append(days, dto.DailySales{Date: day.Format(dateLayout), Start: day, TotalSales: decimal.Zero})
	}
	for _, txn := range txns {
		i, ok := index[txn.Timestamp.In(uc.loc).Format(dateLayout)]
		if !ok {
			continue
		}
		days[i].TotalSales = days[i].TotalSales.Add(txn.TotalAmount)
		days[i].Count++
	}
	return days, nil
}

func (uc *reportUseCase) TopProducts(ctx context.Context, n int, by dto.RankBy) ([]dto.ProductSales, error) {
	if n <= 0 {
		return nil, apperror.Validation("report.TopProducts", "n", "must be greater than 0")
	}
	if by != dto.RankByQuantity && by != dto.RankByRevenue {
		return nil, apperror.Validation("report.TopProducts", "by", "must be quantity or revenue")
	}
	txns, err := uc.transactions.FindAll(ctx, completedBetween(nil, nil))
	if err != nil {
		return nil, err
	}
	return rankProducts(txns, n, by), nil
}

func (uc *reportUseCase) Dashboard(ctx context.Context, now time.Time) (*dto.Dashboard, error) {
	dayStart := startOfDay(now.In(uc.loc))
	dayEnd := dayStart.AddDate(0, 0, 1)

	txns, products, err := uc.load(ctx, completedBetween(&dayStart, &dayEnd))
	if err != nil {
		return nil, err
	}

	total, count := sum(txns)
	uc.logger.Debug("Dashboard built", zap.String("date", dayStart.Format(dateLayout)), zap.Int("transactions", count))
	return &dto.Dashboard{
		Date:              dayStart.Format(dateLayout),
		TodaySales:        total,
		TodayCount:        count,
		AverageOrderValue: average(total, count),
		TopProducts:       rankProducts(txns, topProductsLimit, dto.RankByQuantity),
		LowStock:          lowStock(products),
	}, nil
}

func (uc *reportUseCase) Summary(ctx context.Context) (*dto.Summary, error) {
	txns, products, err := uc.load(ctx, completedBetween(nil, nil))
	if err != nil {
		return nil, err
	}

	total, count := sum(txns)
	return &dto.Summary{
		TotalSales:        total,
		TransactionCount:  count,
		AverageOrderValue: average(total, count),
		ProductCount:      len(products),
		TopProducts:       rankProducts(txns, topProductsLimit, dto.RankByRevenue),
		LowStock:          lowStock(products),
	}, nil
}

// load reads transactions and products concurrently.
func (uc *reportUseCase) load(ctx context.Context, filters *salesdto.TransactionFilters) ([]model.Transaction, []model.Product, error) {
	var (
		txns     []model.Transaction
		products []model.Product
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = uc.transactions.FindAll(ctx, filters)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = uc.products.ListProducts(ctx, &productdto.ProductFilters{SortBy: "stock"})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txns, products, nil
}

func completedBetween(from, to *time.Time) *salesdto.TransactionFilters {
	return &salesdto.TransactionFilters{From: from, To: to, Status: model.TransactionCompleted}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sum(txns []model.Transaction) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.TotalAmount)
	}
	return total, len(txns)
}

func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

// rankProducts aggregates line items per product. Ties fall back to the other measure, then product id.
func rankProducts(txns []model.Transaction, n int, by dto.RankBy) []dto.ProductSales {
	byID := map[int64]*dto.ProductSales{}
	for _, txn := range txns {
		for _, item := range txn.Items {
			ps, ok := byID[item.ProductID]
			if !ok {
				ps = &dto.ProductSales{ProductID: item.ProductID, Revenue: decimal.Zero}
				byID[item.ProductID] = ps
			}
			ps.Name = item.Name
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.Subtotal)
		}
	}

	ranked := make([]dto.ProductSales, 0, len(byID))
	for _, ps := range byID {
		ranked = append(ranked, *ps)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		qty := a.Quantity - b.Quantity
		rev := a.Revenue.Cmp(b.Revenue)
		primary, secondary := qty, rev
		if by == dto.RankByRevenue {
			primary, secondary = rev, qty
		}
		if primary != 0 {
			return primary > 0
		}
		if secondary != 0 {
			return secondary > 0
		}
		return a.ProductID < b.ProductID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func lowStock(products []model.Product) []model.Product {
	out := []model.Product{}
	for _, p := range products {
		if p.StockQuantity < lowStockBelow {
			out = append(out, p)
		}
	}
	return out
}
