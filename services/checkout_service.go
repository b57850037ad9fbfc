package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperr "checkout-service/common/errors"
	"checkout-service/models"
	"checkout-service/notification"
	"checkout-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	taxRate               = decimal.NewFromFloat(0.18)
	freeShippingThreshold = decimal.NewFromInt(500)
	flatShippingFee       = decimal.NewFromInt(50)
)

// InvoiceSender delivers an invoice for an order. Failures are swallowed by
// callers and surface only as an invoice_sent=false flag.
type InvoiceSender interface {
	DeliverInvoice(ctx context.Context, order *models.Order, kind notification.InvoiceKind) error
}

// EventProducer publishes domain events, best-effort.
type EventProducer interface {
	Publish(topic string, key, message []byte) error
}

// IdempotencyStore maps a user-scoped Idempotency-Key to the JSON summary of
// the checkout it already produced.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type ShippingDetails struct {
	Name    string `json:"shipping_name" binding:"required"`
	Email   string `json:"shipping_email" binding:"required,email"`
	Phone   string `json:"shipping_phone" binding:"required"`
	Address string `json:"shipping_address" binding:"required"`
	City    string `json:"shipping_city" binding:"required"`
	State   string `json:"shipping_state" binding:"required"`
	Pincode string `json:"shipping_pincode" binding:"required"`
	Notes   string `json:"notes"`
}

type OrderSummary struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	InvoiceSent bool            `json:"invoice_sent"`
}

// CheckoutService converts a user's cart into an immutable order inside a
// single database transaction: totals, frozen line items, stock decrements
// and cart clearing either all commit or none do. Invoice delivery and event
// publication happen after commit and never roll the order back.
type CheckoutService struct {
	store         repository.Store
	idem          IdempotencyStore
	invoices      InvoiceSender
	producer      EventProducer
	eventsTopic   string
	notifyTimeout time.Duration
	logger        *zap.Logger
}

func NewCheckoutService(
	store repository.Store,
	idem IdempotencyStore,
	invoices InvoiceSender,
	producer EventProducer,
	eventsTopic string,
	notifyTimeout time.Duration,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		store:         store,
		idem:          idem,
		invoices:      invoices,
		producer:      producer,
		eventsTopic:   eventsTopic,
		notifyTimeout: notifyTimeout,
		logger:        logger,
	}
}

// PlaceOrder executes the checkout transaction for the user's cart.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, details ShippingDetails, idemKey string) (*OrderSummary, *apperr.Error) {
	if replay := s.replayIdempotent(ctx, userID, idemKey); replay != nil {
		return replay, nil
	}

	var order *models.Order
	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		cart, err := tx.CartForCheckout(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrCartNotFound
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperr.ErrCartEmpty
		}

		order = buildOrder(userID, details, cart.Items)
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, item := range cart.Items {
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return apperr.Wrap(apperr.ErrInsufficientStock,
						fmt.Errorf("product %s: want %d", item.ProductID, item.Quantity))
				}
				return err
			}
		}

		return tx.ClearCart(ctx, cart.ID)
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		s.logger.Error("Checkout transaction failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.ErrInternalServer, err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(order.Items)),
		zap.String("final_amount", order.FinalAmount.String()),
	)

	summary := &OrderSummary{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		FinalAmount: order.FinalAmount,
		InvoiceSent: deliverInvoice(s.invoices, s.notifyTimeout, s.logger, order, notification.KindOrderConfirmation),
	}

	s.rememberIdempotent(ctx, userID, idemKey, summary)
	s.publishOrderCreated(order)

	return summary, nil
}

// Idempotency keys are scoped per user so a shared header value can never
// replay another user's order.
func idempotencyKey(userID uuid.UUID, idemKey string) string {
	return userID.String() + ":" + idemKey
}

func (s *CheckoutService) replayIdempotent(ctx context.Context, userID uuid.UUID, idemKey string) *OrderSummary {
	if idemKey == "" || s.idem == nil {
		return nil
	}
	cached, err := s.idem.Get(ctx, idempotencyKey(userID, idemKey))
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		return nil
	}
	if cached == "" {
		return nil
	}
	var summary OrderSummary
	if err := json.Unmarshal([]byte(cached), &summary); err != nil {
		return nil
	}
	s.logger.Info("Checkout replayed from idempotency key",
		zap.String("order_id", summary.OrderID.String()),
	)
	return &summary
}

func (s *CheckoutService) rememberIdempotent(ctx context.Context, userID uuid.UUID, idemKey string, summary *OrderSummary) {
	if idemKey == "" || s.idem == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.idem.Set(ctx, idempotencyKey(userID, idemKey), string(payload)); err != nil {
		s.logger.Warn("Idempotency store failed", zap.Error(err))
	}
}

func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.producer == nil {
		return
	}
	evt := models.OrderCreatedEvent{
		Type:        "order_created",
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		FinalAmount: order.FinalAmount.String(),
		Timestamp:   time.Now().UTC(),
	}
	payload, _ := json.Marshal(evt)
	if err := s.producer.Publish(s.eventsTopic, []byte(evt.OrderID), payload); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("order_id", evt.OrderID),
			zap.Error(err),
		)
	}
}

// buildOrder freezes the cart into an order: line items copy the current
// product name and discounted price, and the amounts are computed with
// decimal arithmetic from those snapshots.
func buildOrder(userID uuid.UUID, details ShippingDetails, cartItems []models.CartItem) *models.Order {
	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(cartItems))
	total := decimal.Zero

	for _, ci := range cartItems {
		unit := ci.Product.DiscountedPrice()
		line := unit.Mul(decimal.NewFromInt(int64(ci.Quantity)))
		total = total.Add(line)
		items = append(items, models.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    ci.ProductID,
			ProductName:  ci.Product.Name,
			ProductPrice: unit,
			Quantity:     ci.Quantity,
			TotalPrice:   line,
		})
	}

	tax, shipping, final := computeCharges(total)

	return &models.Order{
		ID:              orderID,
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		ShippingName:    details.Name,
		ShippingEmail:   details.Email,
		ShippingPhone:   details.Phone,
		ShippingAddress: details.Address,
		ShippingCity:    details.City,
		ShippingState:   details.State,
		ShippingPincode: details.Pincode,
		Notes:           details.Notes,
		TotalAmount:     total,
		TaxAmount:       tax,
		ShippingCharges: shipping,
		FinalAmount:     final,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		Items:           items,
	}
}

// computeCharges derives tax, shipping and the final amount from the order
// total: 18% tax rounded to 2 decimals, a flat 50 shipping fee below 500.
func computeCharges(total decimal.Decimal) (tax, shipping, final decimal.Decimal) {
	tax = total.Mul(taxRate).Round(2)
	shipping = decimal.Zero
	if total.LessThan(freeShippingThreshold) {
		shipping = flatShippingFee
	}
	final = total.Add(tax).Add(shipping)
	return tax, shipping, final
}

func newOrderNumber() string {
	return "ORD-" + time.Now().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}

// deliverInvoice attempts time-bounded invoice delivery and reports whether
// it succeeded. A fresh context detaches delivery from the request so a
// cancelled caller cannot abort an already-committed checkout.
func deliverInvoice(invoices InvoiceSender, timeout time.Duration, logger *zap.Logger, order *models.Order, kind notification.InvoiceKind) bool {
	if invoices == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := invoices.DeliverInvoice(ctx, order, kind); err != nil {
		logger.Warn("Invoice delivery failed",
			zap.String("order_id", order.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return false
	}
	return true
}
