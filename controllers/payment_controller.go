package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperr "checkout-service/common/errors"
	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/repository"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

type PaymentController struct {
	Payments *services.PaymentService
	Stripe   *services.StripeService
	Razorpay *services.RazorpayService
	Store    repository.Store
	Logger   *zap.Logger
}

func NewPaymentController(
	payments *services.PaymentService,
	stripeSvc *services.StripeService,
	razorpaySvc *services.RazorpayService,
	store repository.Store,
	logger *zap.Logger,
) *PaymentController {
	return &PaymentController{
		Payments: payments,
		Stripe:   stripeSvc,
		Razorpay: razorpaySvc,
		Store:    store,
		Logger:   logger,
	}
}

// smallestUnit converts a decimal amount to the currency's smallest unit
// (paise) for the provider APIs.
func smallestUnit(amount decimal.Decimal) int64 {
	return amount.Mul(oneHundred).IntPart()
}

func (pc *PaymentController) userOrder(c *gin.Context, orderID uuid.UUID) (*models.Order, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	order, err := pc.Store.OrderByIDAndUser(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return nil, false
		}
		apperr.Respond(c, err)
		return nil, false
	}
	return order, true
}

// CreateStripeIntent opens a Stripe PaymentIntent for one of the caller's
// orders and returns the client secret.
func (pc *PaymentController) CreateStripeIntent(c *gin.Context) {
	var req struct {
		OrderID uuid.UUID `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, ok := pc.userOrder(c, req.OrderID)
	if !ok {
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already paid"})
		return
	}

	_, clientSecret, err := pc.Stripe.CreatePaymentIntent(
		c.Request.Context(),
		smallestUnit(order.FinalAmount),
		"inr",
		order.ID.String(),
	)
	if err != nil {
		pc.Logger.Warn("Stripe intent creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperr.ErrProviderUnavailable.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_secret": clientSecret,
		"amount":        order.FinalAmount.String(),
	})
}

// ConfirmStripePayment verifies a PaymentIntent with Stripe and confirms the
// order on a success verdict.
func (pc *PaymentController) ConfirmStripePayment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		OrderID         uuid.UUID `json:"order_id" binding:"required"`
		PaymentIntentID string    `json:"payment_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, aerr := pc.Payments.ConfirmStripe(c.Request.Context(), userID, req.OrderID, req.PaymentIntentID)
	if aerr != nil {
		c.JSON(aerr.Code, gin.H{"error": aerr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment confirmed successfully",
		"order_id":     res.OrderID,
		"already_paid": res.AlreadyPaid,
		"invoice_sent": res.InvoiceSent,
	})
}

// CreateRazorpayOrder registers an order with Razorpay and returns the
// provider order id the frontend needs to open the payment flow.
func (pc *PaymentController) CreateRazorpayOrder(c *gin.Context) {
	var req struct {
		OrderID uuid.UUID `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, ok := pc.userOrder(c, req.OrderID)
	if !ok {
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already paid"})
		return
	}

	rzpOrder, err := pc.Razorpay.CreateOrder(
		c.Request.Context(),
		smallestUnit(order.FinalAmount),
		"INR",
		order.OrderNumber,
	)
	if err != nil {
		pc.Logger.Warn("Razorpay order creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperr.ErrProviderUnavailable.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"razorpay_order_id": rzpOrder.ID,
		"amount":            order.FinalAmount.String(),
		"currency":          "INR",
		"key":               pc.Razorpay.KeyID,
	})
}

// VerifyRazorpayPayment authenticates the provider callback signature and
// confirms the order.
func (pc *PaymentController) VerifyRazorpayPayment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		OrderID           uuid.UUID `json:"order_id" binding:"required"`
		RazorpayOrderID   string    `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string    `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string    `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, aerr := pc.Payments.ConfirmRazorpay(
		c.Request.Context(),
		userID,
		req.OrderID,
		req.RazorpayOrderID,
		req.RazorpayPaymentID,
		req.RazorpaySignature,
	)
	if aerr != nil {
		c.JSON(aerr.Code, gin.H{"error": aerr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment verified successfully",
		"order_id":     res.OrderID,
		"already_paid": res.AlreadyPaid,
		"invoice_sent": res.InvoiceSent,
	})
}

// StripeWebhook receives Stripe webhook events. The Stripe-Signature header
// authenticates the payload; invalid signatures are rejected before any
// state is touched.
func (pc *PaymentController) StripeWebhook(c *gin.Context) {
	event, err := pc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		pc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		pc.handleIntentSucceeded(c, event)
	default:
		pc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (pc *PaymentController) handleIntentSucceeded(c *gin.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		pc.Logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		return
	}

	orderID, err := uuid.Parse(pi.Metadata["order_id"])
	if err != nil {
		pc.Logger.Warn("Webhook intent missing order_id metadata", zap.String("intent_id", pi.ID))
		return
	}

	if _, aerr := pc.Payments.ConfirmFromWebhook(c.Request.Context(), orderID, pi.ID); aerr != nil {
		pc.Logger.Warn("Webhook confirmation failed",
			zap.String("order_id", orderID.String()),
			zap.String("intent_id", pi.ID),
			zap.String("reason", aerr.Message),
		)
	}
}
