package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	categorydto "github.com/Iceblockp/mini-shop-pos/internal/category/dto"
	categoryrepo "github.com/Iceblockp/mini-shop-pos/internal/category/repository"
	categoryuc "github.com/Iceblockp/mini-shop-pos/internal/category/usecase"
	"github.com/Iceblockp/mini-shop-pos/internal/database/databasetest"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/product"
	"github.com/Iceblockp/mini-shop-pos/internal/product/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/product/repository"
	"github.com/Iceblockp/mini-shop-pos/internal/product/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products   product.UseCase
	repo       *repository.SQLiteRepository
	categories *categoryrepo.SQLiteRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := databasetest.Open(t)
	repo := repository.NewSQLiteRepository(db)
	categories := categoryrepo.NewSQLiteRepository(db)
	return fixture{
		products:   usecase.NewProductUseCase(repo, categories, logger.NewNop()),
		repo:       repo,
		categories: categories,
	}
}

func (f fixture) category(t *testing.T, name string) int64 {
	t.Helper()
	now := time.Now().UTC()
	c := &model.Category{BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now}, Name: name}
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c.ID
}

func cola(sku string) *dto.CreateProductInput {
	return &dto.CreateProductInput{
		Name:          "Cola",
		SKU:           sku,
		Price:         decimal.RequireFromString("1.50"),
		CostPrice:     decimal.RequireFromString("0.90"),
		StockQuantity: 24,
		Barcode:       "8850000000011",
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "Drinks")

	input := cola("COLA-1")
	input.CategoryID = &drinks
	input.Supplier = "Acme"
	input.BulkPrices = model.BulkPrices{{Quantity: 12, Price: decimal.RequireFromString("1.25")}}

	created, err := f.products.CreateProduct(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Drinks", created.Category)

	got, err := f.products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "COLA-1", got.SKU)
	assert.True(t, decimal.RequireFromString("1.5").Equal(got.Price))
	assert.Equal(t, 24, got.StockQuantity)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, "Acme", *got.Supplier)
	assert.Nil(t, got.ImageURL)
	require.Len(t, got.BulkPrices, 1)
	assert.Equal(t, 12, got.BulkPrices[0].Quantity)
	assert.Nil(t, got.Promotion)

	_, err = f.products.GetProduct(ctx, 12345)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.products.CreateProduct(ctx, cola("DUP"))
	require.NoError(t, err)

	_, err = f.products.CreateProduct(ctx, cola("DUP"))
	require.ErrorIs(t, err, apperror.ErrDuplicateKey)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "sku", appErr.Field)

	other, err := f.products.CreateProduct(ctx, cola("OTHER"))
	require.NoError(t, err)
	update := &dto.UpdateProductInput{ID: other.ID, Name: "Cola", SKU: "DUP"}
	_, err = f.products.UpdateProduct(ctx, update)
	assert.ErrorIs(t, err, apperror.ErrDuplicateKey)

	all, err := f.products.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "OTHER", all[1].SKU)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]func(*dto.CreateProductInput){
		"missing name":      func(in *dto.CreateProductInput) { in.Name = "" },
		"negative stock":    func(in *dto.CreateProductInput) { in.StockQuantity = -1 },
		"negative price":    func(in *dto.CreateProductInput) { in.Price = decimal.NewFromInt(-1) },
		"bad image url":     func(in *dto.CreateProductInput) { in.ImageURL = "not a url" },
		"zero tier":         func(in *dto.CreateProductInput) { in.BulkPrices = model.BulkPrices{{Quantity: 0}} },
		"unknown category":  func(in *dto.CreateProductInput) { id := int64(99); in.CategoryID = &id },
		"inverted promo":    func(in *dto.CreateProductInput) { in.Promotion = &model.Promotion{StartDate: time.Now(), EndDate: time.Now().Add(-time.Hour), DiscountType: model.DiscountFixed} },
		"percentage > 100":  func(in *dto.CreateProductInput) { in.Promotion = &model.Promotion{DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(150)} },
		"unknown promotion": func(in *dto.CreateProductInput) { in.Promotion = &model.Promotion{DiscountType: "bogo"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := cola("SKU-" + name)
			mutate(input)
			_, err := f.products.CreateProduct(ctx, input)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	all, err := f.products.ListProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateIsFullReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	input := cola("COLA-1")
	input.Supplier = "Acme"
	created, err := f.products.CreateProduct(ctx, input)
	require.NoError(t, err)

	updated, err := f.products.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:            created.ID,
		Name:          "Cola Zero",
		SKU:           "COLA-1",
		Price:         decimal.RequireFromString("1.75"),
		StockQuantity: 10,
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	got, err := f.products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola Zero", got.Name)
	assert.Nil(t, got.Supplier)
	assert.Nil(t, got.Barcode)
	assert.Equal(t, 10, got.StockQuantity)

	_, err = f.products.UpdateProduct(ctx, &dto.UpdateProductInput{ID: 999, Name: "X", SKU: "X"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCategoryNameFollowsRename(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "Drinks")

	input := cola("COLA-1")
	input.CategoryID = &drinks
	created, err := f.products.CreateProduct(ctx, input)
	require.NoError(t, err)

	categories := categoryuc.NewCategoryUseCase(f.categories, nil, logger.NewNop())
	_, err = categories.UpdateCategory(ctx, &categorydto.UpdateCategoryInput{ID: drinks, Name: "Beverages"})
	require.NoError(t, err)

	got, err := f.products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Category)

	// A deleted category leaves the last known name in place.
	require.NoError(t, categories.DeleteCategory(ctx, drinks))
	got, err = f.products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", got.Category)

	byCategory, err := f.products.ListByCategory(ctx, drinks)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)
}

// brokenCategory fails lookups for one category id.
type brokenCategory struct {
	product.CategoryReader
	id int64
}

func (b brokenCategory) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	if id == b.id {
		return nil, errors.New("disk I/O error")
	}
	return b.CategoryReader.FindByID(ctx, id)
}

func TestFailedCategoryLookupKeepsOnlyThatSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "Drinks")
	snacks := f.category(t, "Snacks")

	first := cola("COLA-1")
	first.CategoryID = &drinks
	_, err := f.products.CreateProduct(ctx, first)
	require.NoError(t, err)
	second := cola("CHIPS-1")
	second.Name = "Chips"
	second.CategoryID = &snacks
	_, err = f.products.CreateProduct(ctx, second)
	require.NoError(t, err)

	categories := categoryuc.NewCategoryUseCase(f.categories, nil, logger.NewNop())
	_, err = categories.UpdateCategory(ctx, &categorydto.UpdateCategoryInput{ID: drinks, Name: "Beverages"})
	require.NoError(t, err)
	_, err = categories.UpdateCategory(ctx, &categorydto.UpdateCategoryInput{ID: snacks, Name: "Crisps"})
	require.NoError(t, err)

	uc := usecase.NewProductUseCase(f.repo, brokenCategory{CategoryReader: f.categories, id: drinks}, logger.NewNop())
	all, err := uc.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Drinks", all[0].Category)
	assert.Equal(t, "Crisps", all[1].Category)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	snacks := f.category(t, "Snacks")

	_, err := f.products.CreateProduct(ctx, cola("COLA-1"))
	require.NoError(t, err)
	chips := &dto.CreateProductInput{Name: "Potato Chips", SKU: "CHP-7", CategoryID: &snacks, Barcode: "4711"}
	_, err = f.products.CreateProduct(ctx, chips)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"COLA-1", "CHP-7"}},
		{"cola", []string{"COLA-1"}},
		{"POTATO", []string{"CHP-7"}},
		{"chp", []string{"CHP-7"}},
		{"snack", []string{"CHP-7"}},
		{"471", []string{"CHP-7"}},
		{"885", []string{"COLA-1"}},
		{"nothing", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got, err := f.products.SearchProducts(ctx, tc.query)
			require.NoError(t, err)
			skus := []string{}
			for _, p := range got {
				skus = append(skus, p.SKU)
			}
			assert.Equal(t, tc.want, skus)
		})
	}
}

func TestGetByBarcodeAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.products.CreateProduct(ctx, cola("COLA-1"))
	require.NoError(t, err)

	got, err := f.products.GetByBarcode(ctx, "8850000000011")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.products.GetByBarcode(ctx, "000")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.products.GetByBarcode(ctx, " ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, f.products.DeleteProduct(ctx, created.ID))
	assert.ErrorIs(t, f.products.DeleteProduct(ctx, created.ID), apperror.ErrNotFound)
}
