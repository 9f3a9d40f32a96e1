package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/product"
	"github.com/Iceblockp/mini-shop-pos/internal/product/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

type productUseCase struct {
	repo       product.Repository
	categories product.CategoryReader
	logger     logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, categories product.CategoryReader, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		logger:     log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	const op = "product.Create"
	if err := apperror.ValidateStruct(op, input); err != nil {
		return nil, err
	}
	if err := validatePricing(op, input.Price, input.CostPrice, input.BulkPrices, input.Promotion); err != nil {
		return nil, err
	}
	categoryName, err := uc.categoryNameForWrite(ctx, op, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:     model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:          input.Name,
		SKU:           input.SKU,
		Description:   input.Description,
		Price:         input.Price,
		CostPrice:     input.CostPrice,
		Category:      categoryName,
		CategoryID:    input.CategoryID,
		StockQuantity: input.StockQuantity,
		Barcode:       optional(input.Barcode),
		Supplier:      optional(input.Supplier),
		ImageURL:      optional(input.ImageURL),
		BulkPrices:    input.BulkPrices,
		Promotion:     input.Promotion,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Debug("Product created", zap.Int64("product_id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product.Get", "product", id)
	}
	uc.refreshCategoryNames(ctx, []*model.Product{p})
	return p, nil
}

func (uc *productUseCase) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	const op = "product.GetByBarcode"
	if strings.TrimSpace(barcode) == "" {
		return nil, apperror.Validation(op, "Barcode", "is required")
	}
	p, err := uc.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &apperror.Error{Kind: apperror.KindNotFound, Op: op, Entity: "product", Message: "no product with barcode " + barcode}
	}
	uc.refreshCategoryNames(ctx, []*model.Product{p})
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	products, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}
	uc.refreshCategoryNames(ctx, pointers(products))
	return products, nil
}

func (uc *productUseCase) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	products, err := uc.repo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	uc.refreshCategoryNames(ctx, pointers(products))
	return products, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	const op = "product.Update"
	if err := apperror.ValidateStruct(op, input); err != nil {
		return nil, err
	}
	if err := validatePricing(op, input.Price, input.CostPrice, input.BulkPrices, input.Promotion); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound(op, "product", input.ID)
	}
	categoryName, err := uc.categoryNameForWrite(ctx, op, input.CategoryID)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.SKU = input.SKU
	p.Description = input.Description
	p.Price = input.Price
	p.CostPrice = input.CostPrice
	p.Category = categoryName
	p.CategoryID = input.CategoryID
	p.StockQuantity = input.StockQuantity
	p.Barcode = optional(input.Barcode)
	p.Supplier = optional(input.Supplier)
	p.ImageURL = optional(input.ImageURL)
	p.BulkPrices = input.BulkPrices
	p.Promotion = input.Promotion
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *productUseCase) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	products, err := uc.ListProducts(ctx, nil)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return products, nil
	}

	fold := cases.Fold()
	needle := fold.String(query)
	matches := []model.Product{}
	for _, p := range products {
		for _, field := range []string{p.Name, p.SKU, p.Category, p.BarcodeValue()} {
			if strings.Contains(fold.String(field), needle) {
				matches = append(matches, p)
				break
			}
		}
	}
	return matches, nil
}

// categoryNameForWrite returns the name to snapshot for categoryID. A reference to a
// missing category is rejected on write.
func (uc *productUseCase) categoryNameForWrite(ctx context.Context, op string, categoryID *int64) (string, error) {
	if categoryID == nil || uc.categories == nil {
		return "", nil
	}
	c, err := uc.categories.FindByID(ctx, *categoryID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", apperror.Validation(op, "CategoryID", "category does not exist")
	}
	return c.Name, nil
}

// refreshCategoryNames replaces the stored name snapshot with the category's current name.
// Stale snapshots of deleted categories are kept as they are.
func (uc *productUseCase) refreshCategoryNames(ctx context.Context, products []*model.Product) {
	if uc.categories == nil {
		return
	}
	names := map[int64]string{}
	for _, p := range products {
		if p.CategoryID == nil {
			continue
		}
		name, seen := names[*p.CategoryID]
		if !seen {
			c, err := uc.categories.FindByID(ctx, *p.CategoryID)
			if err != nil {
				uc.logger.Warn("Category lookup failed, keeping snapshot", zap.Int64("category_id", *p.CategoryID), zap.Error(err))
				continue
			}
			if c != nil {
				name = c.Name
			}
			names[*p.CategoryID] = name
		}
		if name != "" {
			p.Category = name
		}
	}
}

func validatePricing(op string, price, cost decimal.Decimal, tiers model.BulkPrices, promo *model.Promotion) error {
	if price.IsNegative() {
		return apperror.Validation(op, "Price", "must not be negative")
	}
	if cost.IsNegative() {
		return apperror.Validation(op, "CostPrice", "must not be negative")
	}
	for _, tier := range tiers {
		if tier.Quantity <= 0 {
			return apperror.Validation(op, "BulkPrices", "tier quantity must be greater than 0")
		}
		if tier.Price.IsNegative() {
			return apperror.Validation(op, "BulkPrices", "tier price must not be negative")
		}
	}
	if promo == nil {
		return nil
	}
	if promo.EndDate.Before(promo.StartDate) {
		return apperror.Validation(op, "Promotion", "end date is before start date")
	}
	switch promo.DiscountType {
	case model.DiscountPercentage:
		if promo.DiscountValue.IsNegative() || promo.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return apperror.Validation(op, "Promotion", "percentage must be between 0 and 100")
		}
	case model.DiscountFixed:
		if promo.DiscountValue.IsNegative() {
			return apperror.Validation(op, "Promotion", "discount must not be negative")
		}
	default:
		return apperror.Validation(op, "Promotion", "unknown discount type")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func pointers(products []model.Product) []*model.Product {
	out := make([]*model.Product, len(products))
	for i := range products {
		out[i] = &products[i]
	}
	return out
}
