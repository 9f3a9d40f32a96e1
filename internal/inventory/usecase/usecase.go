package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/inventory"
	"github.com/Iceblockp/mini-shop-pos/internal/inventory/dto"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/metrics"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("inventory-usecase")

type inventoryUseCase struct {
	repo    inventory.Repository
	cfg     config.InventoryConfig
	alerts  chan<- model.InventoryAlert
	metrics *metrics.Metrics
	logger  logger.ZapLogger
	now     func() time.Time
}

// NewInventoryUseCase builds the adjustment engine. alerts and m are optional; when alerts
// is set, low-stock alerts are offered to it without blocking.
func NewInventoryUseCase(repo inventory.Repository, cfg config.InventoryConfig, alerts chan<- model.InventoryAlert, m *metrics.Metrics, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		cfg:     cfg,
		alerts:  alerts,
		metrics: m,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error) {
	const op = "inventory.AdjustStock"
	if input == nil {
		return nil, apperror.Validation(op, "", "input is required")
	}
	ctx, span := tracer.Start(ctx, op,
		trace.WithAttributes(
			attribute.Int64("product.id", input.ProductID),
			attribute.String("adjustment.type", string(input.Type)),
			attribute.Int("adjustment.quantity", input.Quantity),
		),
	)
	defer span.End()

	movement, product, err := uc.adjust(ctx, op, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.ObserveAdjustment(string(input.Type), apperror.KindOf(err).String())
		return nil, err
	}
	uc.metrics.ObserveAdjustment(string(input.Type), metrics.OutcomeSuccess)
	span.SetAttributes(attribute.Int("stock.new", movement.NewStock))

	uc.logger.Info("Stock adjusted",
		zap.Int64("product_id", movement.ProductID),
		zap.String("type", string(movement.AdjustmentType)),
		zap.Int("quantity", movement.Quantity),
		zap.Int("previous_stock", movement.PreviousStock),
		zap.Int("new_stock", movement.NewStock),
	)

	if movement.NewStock <= uc.cfg.LowStockThreshold {
		uc.signalLowStock(product, movement.Timestamp)
	}
	return movement, nil
}

func (uc *inventoryUseCase) adjust(ctx context.Context, op string, input *dto.AdjustStockInput) (*model.InventoryMovement, *model.Product, error) {
	if err := apperror.ValidateStruct(op, input); err != nil {
		return nil, nil, err
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, nil, apperror.Validation(op, "Reason", "is required")
	}

	var movement *model.InventoryMovement
	var product *model.Product
	err := uc.repo.WithTx(ctx, func(ctx context.Context, tx inventory.TxRepository) error {
		p, err := tx.GetProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(op, "product", input.ProductID)
		}

		delta := input.Quantity
		if input.Type == model.AdjustmentRemove {
			delta = -input.Quantity
		}
		previous := p.StockQuantity
		if (delta > 0 && previous > math.MaxInt-delta) || (delta < 0 && previous < math.MinInt-delta) {
			return apperror.Validation(op, "Quantity", "stock level out of range")
		}
		next := previous + delta
		if next < 0 && !uc.cfg.AllowNegativeStock {
			return apperror.InsufficientStock(op, p.ID, p.Name, previous, input.Quantity)
		}

		now := uc.now()
		p.StockQuantity = next
		p.UpdatedAt = now
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return err
		}

		m := &model.InventoryMovement{
			ProductID:      p.ID,
			AdjustmentType: input.Type,
			Quantity:       input.Quantity,
			Reason:         reason,
			PreviousStock:  previous,
			NewStock:       next,
			Timestamp:      now,
		}
		if err := tx.InsertMovement(ctx, m); err != nil {
			return err
		}
		movement, product = m, p
		return nil
	})
	if err != nil {
		return nil, nil, apperror.Storage(op, err)
	}
	return movement, product, nil
}

// signalLowStock runs after commit and never fails or blocks the adjustment.
func (uc *inventoryUseCase) signalLowStock(p *model.Product, at time.Time) {
	alert := model.InventoryAlert{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Type:         model.AlertLowStock,
		Threshold:    uc.cfg.LowStockThreshold,
		CurrentStock: p.StockQuantity,
		Timestamp:    at,
	}
	if p.StockQuantity <= 0 {
		alert.Type = model.AlertOutOfStock
	}

	uc.logger.Warn("Low stock",
		zap.Int64("product_id", alert.ProductID),
		zap.String("product_name", alert.ProductName),
		zap.String("alert_type", string(alert.Type)),
		zap.Int("current_stock", alert.CurrentStock),
		zap.Int("threshold", alert.Threshold),
	)
	uc.metrics.ObserveLowStock(string(alert.Type))

	if uc.alerts == nil {
		return
	}
	select {
	case uc.alerts <- alert:
	default:
		uc.logger.Debug("Alert channel full, dropping alert", zap.Int64("product_id", alert.ProductID))
	}
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, error) {
	if err := apperror.ValidateStruct("inventory.ListMovements", filters); err != nil {
		return nil, err
	}
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	if threshold < 0 {
		return nil, apperror.Validation("inventory.ListLowStock", "threshold", "must not be negative")
	}
	return uc.repo.ListLowStock(ctx, threshold)
}
