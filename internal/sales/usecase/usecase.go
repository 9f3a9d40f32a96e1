package usecase

import (
	"context"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/Iceblockp/mini-shop-pos/internal/apperror"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/metrics"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/sales"
	"github.com/Iceblockp/mini-shop-pos/internal/sales/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	tracer       = otel.Tracer("sales-usecase")
	lastFourRule = regexp.MustCompile(`^[0-9]{4}$`)
)

type salesUseCase struct {
	repo    sales.Repository
	metrics *metrics.Metrics
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewSalesUseCase(repo sales.Repository, m *metrics.Metrics, log logger.ZapLogger) sales.UseCase {
	return &salesUseCase{
		repo:    repo,
		metrics: m,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Checkout records a completed sale and decrements stock for every line in one unit of work.
// Either the transaction and all stock changes are stored, or nothing is.
func (uc *salesUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Transaction, error) {
	const op = "sales.Checkout"
	if input == nil {
		return nil, apperror.Validation(op, "", "input is required")
	}
	ctx, span := tracer.Start(ctx, op,
		trace.WithAttributes(
			attribute.Int("checkout.lines", len(input.Items)),
			attribute.String("payment.method", string(input.Payment.Method)),
		),
	)
	defer span.End()

	txn, err := uc.checkout(ctx, op, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.ObserveCheckout(apperror.KindOf(err).String(), decimal.Zero)
		uc.logger.Warn("Checkout failed", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int64("transaction.id", txn.ID), attribute.String("transaction.total", txn.TotalAmount.String()))
	uc.metrics.ObserveCheckout(metrics.OutcomeSuccess, txn.TotalAmount)
	uc.logger.Info("Checkout completed",
		zap.Int64("transaction_id", txn.ID),
		zap.String("receipt_no", txn.ReceiptNo),
		zap.String("total", txn.TotalAmount.StringFixed(2)),
		zap.String("payment_method", string(txn.Payment.Method)),
		zap.Int("lines", len(txn.Items)),
	)
	return txn, nil
}

func (uc *salesUseCase) checkout(ctx context.Context, op string, input *dto.CheckoutInput) (*model.Transaction, error) {
	if err := apperror.ValidateStruct(op, input); err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, apperror.Validation(op, "UnitPrice", "must not be negative")
		}
	}
	if err := checkPayment(op, input.Payment); err != nil {
		return nil, err
	}

	// Required quantity per product, in first-seen order.
	required := map[int64]int{}
	order := []int64{}
	for _, item := range input.Items {
		if _, seen := required[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		if item.Quantity > math.MaxInt-required[item.ProductID] {
			return nil, apperror.Validation(op, "Items", "total quantity for a product is too large")
		}
		required[item.ProductID] += item.Quantity
	}

	var txn *model.Transaction
	err := uc.repo.WithTx(ctx, func(ctx context.Context, tx sales.TxRepository) error {
		now := uc.now()

		// Every product is read and checked before anything is written.
		products := make(map[int64]*model.Product, len(order))
		for _, id := range order {
			p, err := tx.GetProduct(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return apperror.NotFound(op, "product", id)
			}
			if p.StockQuantity < required[id] {
				return apperror.InsufficientStock(op, p.ID, p.Name, p.StockQuantity, required[id])
			}
			products[id] = p
		}

		items := make(model.TransactionItems, 0, len(input.Items))
		total := decimal.Zero
		for _, line := range input.Items {
			p := products[line.ProductID]
			unitPrice := p.EffectivePrice(required[line.ProductID], now)
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			subtotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, model.TransactionItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		payment, err := settlePayment(op, input.Payment, total)
		if err != nil {
			return err
		}

		for _, id := range order {
			p := products[id]
			p.StockQuantity -= required[id]
			p.UpdatedAt = now
			if err := tx.UpdateProduct(ctx, p); err != nil {
				return err
			}
		}

		t := &model.Transaction{
			ReceiptNo:   uuid.NewString(),
			Items:       items,
			TotalAmount: total,
			Payment:     payment,
			Timestamp:   now,
			Status:      model.TransactionCompleted,
			CustomerID:  optional(input.CustomerID),
			Notes:       optional(input.Notes),
		}
		if err := tx.InsertTransaction(ctx, t); err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return txn, nil
}

// checkPayment validates the method-specific fields that do not depend on the total.
func checkPayment(op string, in dto.PaymentInput) error {
	switch in.Method {
	case model.PaymentCash:
		if in.Amount.IsNegative() {
			return apperror.Validation(op, "Payment.Amount", "must not be negative")
		}
	case model.PaymentCard:
		if !lastFourRule.MatchString(in.CardLastFourDigits) {
			return apperror.Validation(op, "Payment.CardLastFourDigits", "must be exactly 4 digits")
		}
	case model.PaymentMobile:
		if strings.TrimSpace(in.MobilePaymentReference) == "" {
			return apperror.Validation(op, "Payment.MobilePaymentReference", "is required")
		}
	default:
		return apperror.Validation(op, "Payment.Method", "unknown payment method")
	}
	return nil
}

// settlePayment builds the stored payment for an already checked input.
func settlePayment(op string, in dto.PaymentInput, total decimal.Decimal) (model.PaymentDetails, error) {
	details := model.PaymentDetails{Method: in.Method, Amount: total}
	switch in.Method {
	case model.PaymentCash:
		if in.Amount.LessThan(total) {
			return details, apperror.Validation(op, "Payment.Amount", "cash tendered is less than the total "+total.StringFixed(2))
		}
		change := in.Amount.Sub(total)
		details.Amount = in.Amount
		details.Change = &change
	case model.PaymentCard:
		details.CardLastFourDigits = in.CardLastFourDigits
	case model.PaymentMobile:
		details.MobilePaymentReference = strings.TrimSpace(in.MobilePaymentReference)
	}
	return details, nil
}

func (uc *salesUseCase) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	txn, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NotFound("sales.GetTransaction", "transaction", id)
	}
	return txn, nil
}

func (uc *salesUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error) {
	if filters != nil && filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, apperror.Validation("sales.ListTransactions", "To", "is before From")
	}
	return uc.repo.FindAll(ctx, filters)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
