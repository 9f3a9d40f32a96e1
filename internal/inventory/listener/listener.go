package listener

import (
	"context"

	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"go.uber.org/zap"
)

// AlertHandler reacts to one low-stock alert.
type AlertHandler func(ctx context.Context, alert model.InventoryAlert)

type AlertListener struct {
	alerts  <-chan model.InventoryAlert
	handler AlertHandler
	logger  logger.ZapLogger
}

// NewAlertListener drains alerts. A nil handler only logs.
func NewAlertListener(alerts <-chan model.InventoryAlert, handler AlertHandler, logger logger.ZapLogger) *AlertListener {
	return &AlertListener{
		alerts:  alerts,
		handler: handler,
		logger:  logger,
	}
}

// Start blocks until ctx is done or the alert channel is closed.
func (l *AlertListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory alert listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory alert listener")
			return
		case alert, ok := <-l.alerts:
			if !ok {
				l.logger.Info("Inventory alert channel closed")
				return
			}
			l.process(ctx, alert)
		}
	}
}

func (l *AlertListener) process(ctx context.Context, alert model.InventoryAlert) {
	l.logger.Info("Inventory alert",
		zap.Int64("product_id", alert.ProductID),
		zap.String("product_name", alert.ProductName),
		zap.String("type", string(alert.Type)),
		zap.Int("current_stock", alert.CurrentStock),
		zap.Time("at", alert.Timestamp),
	)
	if l.handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Alert handler panicked", zap.Any("panic", r), zap.Int64("product_id", alert.ProductID))
		}
	}()
	l.handler(ctx, alert)
}
