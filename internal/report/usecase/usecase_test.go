package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	categoryrepo "github.com/Iceblockp/mini-shop-pos/internal/category/repository"
	"github.com/Iceblockp/mini-shop-pos/internal/database/databasetest"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	productdto "github.com/Iceblockp/mini-shop-pos/internal/product/dto"
	productrepo "github.com/Iceblockp/mini-shop-pos/internal/product/repository"
	productuc "github.com/Iceblockp/mini-shop-pos/internal/product/usecase"
	"github.com/Iceblockp/mini-shop-pos/internal/report"
	"github.com/Iceblockp/mini-shop-pos/internal/report/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/report/usecase"
	"github.com/Iceblockp/mini-shop-pos/internal/sales"
	salesrepo "github.com/Iceblockp/mini-shop-pos/internal/sales/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc         report.UseCase
	products   *productrepo.SQLiteRepository
	categories *categoryrepo.SQLiteRepository
	sales      *salesrepo.SQLiteRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	f := &fixture{
		products:   productrepo.NewSQLiteRepository(db),
		categories: categoryrepo.NewSQLiteRepository(db),
		sales:      salesrepo.NewSQLiteRepository(db),
	}
	catalogue := productuc.NewProductUseCase(f.products, f.categories, logger.NewNop())
	f.uc = usecase.NewReportUseCase(catalogue, f.sales, config.ReportConfig{Timezone: "UTC"}, logger.NewNop())
	return f
}

func (f *fixture) product(t *testing.T, name string, stock int) int64 {
	t.Helper()
	p := &model.Product{
		BaseModel:     model.BaseModel{CreatedAt: day, UpdatedAt: day},
		Name:          name,
		SKU:           name,
		Price:         decimal.NewFromInt(1),
		StockQuantity: stock,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p.ID
}

type line struct {
	productID int64
	name      string
	qty       int
	unit      string
}

func (f *fixture) sale(t *testing.T, at time.Time, status model.TransactionStatus, lines ...line) {
	t.Helper()
	txn := &model.Transaction{
		ReceiptNo: at.Format(time.RFC3339Nano) + string(status),
		Timestamp: at.UTC(),
		Status:    status,
		Payment:   model.PaymentDetails{Method: model.PaymentCard, CardLastFourDigits: "0000"},
	}
	total := decimal.Zero
	for _, l := range lines {
		unit := decimal.RequireFromString(l.unit)
		subtotal := unit.Mul(decimal.NewFromInt(int64(l.qty)))
		txn.Items = append(txn.Items, model.TransactionItem{
			ProductID: l.productID, Name: l.name, Quantity: l.qty, UnitPrice: unit, Subtotal: subtotal,
		})
		total = total.Add(subtotal)
	}
	txn.TotalAmount = total
	txn.Payment.Amount = total
	err := f.sales.WithTx(context.Background(), func(ctx context.Context, tx sales.TxRepository) error {
		return tx.InsertTransaction(ctx, txn)
	})
	require.NoError(t, err)
}

func TestDailySalesBucketsCompletedOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tea := f.product(t, "Tea", 50)

	f.sale(t, day.Add(9*time.Hour), model.TransactionCompleted, line{tea, "Tea", 2, "1.50"})
	f.sale(t, day.Add(23*time.Hour+59*time.Minute), model.TransactionCompleted, line{tea, "Tea", 1, "1.50"})
	f.sale(t, day.Add(10*time.Hour), model.TransactionRefunded, line{tea, "Tea", 9, "1.50"})
	f.sale(t, day.AddDate(0, 0, 2).Add(time.Hour), model.TransactionCompleted, line{tea, "Tea", 4, "1.00"})
	f.sale(t, day.AddDate(0, 0, 3), model.TransactionCompleted, line{tea, "Tea", 100, "1.00"}) // outside range

	days, err := f.uc.DailySales(ctx, day, day.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "2026-03-10", days[0].Date)
	assert.Equal(t, 2, days[0].Count)
	assert.True(t, decimal.RequireFromString("4.50").Equal(days[0].TotalSales))

	assert.Equal(t, "2026-03-11", days[1].Date)
	assert.Zero(t, days[1].Count)
	assert.True(t, days[1].TotalSales.IsZero())

	assert.Equal(t, 1, days[2].Count)
	assert.True(t, decimal.NewFromInt(4).Equal(days[2].TotalSales))

	_, err = f.uc.DailySales(ctx, day, day)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestTopProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "A", 50)
	b := f.product(t, "B", 50)
	c := f.product(t, "C", 50)

	f.sale(t, day.Add(time.Hour), model.TransactionCompleted, line{a, "A", 10, "1"}, line{b, "B", 1, "20"})
	f.sale(t, day.Add(2*time.Hour), model.TransactionCompleted, line{c, "C old", 3, "2"}, line{a, "A", 1, "1"})
	f.sale(t, day.Add(3*time.Hour), model.TransactionCompleted, line{c, "C", 2, "2"})
	f.sale(t, day.Add(4*time.Hour), model.TransactionCancelled, line{b, "B", 100, "20"})

	byQty, err := f.uc.TopProducts(ctx, 5, dto.RankByQuantity)
	require.NoError(t, err)
	require.Len(t, byQty, 3)
	assert.Equal(t, []int64{a, c, b}, productIDs(byQty))
	assert.Equal(t, 11, byQty[0].Quantity)
	assert.Equal(t, "C", byQty[1].Name)

	byRevenue, err := f.uc.TopProducts(ctx, 2, dto.RankByRevenue)
	require.NoError(t, err)
	assert.Equal(t, []int64{b, a}, productIDs(byRevenue))
	assert.True(t, decimal.NewFromInt(20).Equal(byRevenue[0].Revenue))

	_, err = f.uc.TopProducts(ctx, 0, dto.RankByRevenue)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.uc.TopProducts(ctx, 3, "profit")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	milk := f.product(t, "Milk", 3)
	f.product(t, "Flour", 10)
	f.product(t, "Sugar", 0)

	f.sale(t, day.Add(-time.Minute), model.TransactionCompleted, line{milk, "Milk", 50, "1"}) // yesterday
	f.sale(t, day.Add(8*time.Hour), model.TransactionCompleted, line{milk, "Milk", 2, "2.50"})
	f.sale(t, day.Add(12*time.Hour), model.TransactionCompleted, line{milk, "Milk", 1, "2.50"})
	f.sale(t, day.Add(13*time.Hour), model.TransactionRefunded, line{milk, "Milk", 1, "2.50"})

	d, err := f.uc.Dashboard(ctx, day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", d.Date)
	assert.Equal(t, 2, d.TodayCount)
	assert.True(t, decimal.RequireFromString("7.50").Equal(d.TodaySales))
	assert.True(t, decimal.RequireFromString("3.75").Equal(d.AverageOrderValue))
	require.Len(t, d.TopProducts, 1)
	assert.Equal(t, 3, d.TopProducts[0].Quantity)

	require.Len(t, d.LowStock, 2)
	assert.Equal(t, "Sugar", d.LowStock[0].Name)
	assert.Equal(t, "Milk", d.LowStock[1].Name)

	empty, err := f.uc.Dashboard(ctx, day.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, empty.TodayCount)
	assert.True(t, empty.AverageOrderValue.IsZero())
	assert.Empty(t, empty.TopProducts)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ids := []int64{}
	for _, name := range []string{"P1", "P2", "P3", "P4", "P5", "P6"} {
		ids = append(ids, f.product(t, name, 20))
	}
	for i, id := range ids {
		f.sale(t, day.Add(time.Duration(i)*time.Hour), model.TransactionCompleted, line{id, "x", 1, decimal.NewFromInt(int64(i + 1)).String()})
	}

	s, err := f.uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, s.TransactionCount)
	assert.Equal(t, 6, s.ProductCount)
	assert.True(t, decimal.NewFromInt(21).Equal(s.TotalSales))
	assert.True(t, decimal.NewFromFloat(3.5).Equal(s.AverageOrderValue))
	require.Len(t, s.TopProducts, 5)
	assert.Equal(t, ids[5], s.TopProducts[0].ProductID)
	assert.Empty(t, s.LowStock)
}

func TestLowStockCarriesCurrentCategoryName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := &model.Category{BaseModel: model.BaseModel{CreatedAt: day, UpdatedAt: day}, Name: "Dairy"}
	require.NoError(t, f.categories.Create(ctx, c))

	p := &model.Product{
		BaseModel:     model.BaseModel{CreatedAt: day, UpdatedAt: day},
		Name:          "Butter",
		SKU:           "BUTTER",
		Price:         decimal.NewFromInt(3),
		Category:      "Chilled",
		CategoryID:    &c.ID,
		StockQuantity: 1,
	}
	require.NoError(t, f.products.Create(ctx, p))

	s, err := f.uc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, "Dairy", s.LowStock[0].Category)
}

type brokenProducts struct{}

func (brokenProducts) ListProducts(context.Context, *productdto.ProductFilters) ([]model.Product, error) {
	return nil, errors.New("products unavailable")
}

func TestSummaryPropagatesLoadErrors(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewReportUseCase(brokenProducts{}, f.sales, config.ReportConfig{Timezone: "UTC"}, logger.NewNop())

	_, err := uc.Summary(context.Background())
	assert.EqualError(t, err, "products unavailable")
}

func productIDs(sales []dto.ProductSales) []int64 {
	out := []int64{}
	for _, s := range sales {
		out = append(out, s.ProductID)
	}
	return out
}
