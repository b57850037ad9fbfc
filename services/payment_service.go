package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperr "checkout-service/common/errors"
	"checkout-service/models"
	"checkout-service/notification"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionVerifier asks a payment provider whether a transaction
// reference succeeded. Network-bound and unreliable; callers bound it with a
// timeout and treat errors as provider unavailability, not as a decline.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, ref string) (bool, error)
}

// SignatureVerifier checks a provider's cryptographic signature over a
// payment payload without any network round-trip.
type SignatureVerifier interface {
	VerifyPaymentSignature(providerOrderID, providerPaymentID, signature string) bool
}

type ConfirmResult struct {
	OrderID       uuid.UUID `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	AlreadyPaid   bool      `json:"already_paid"`
	InvoiceSent   bool      `json:"invoice_sent"`
}

// PaymentService applies the unpaid→paid transition on orders once a
// provider verdict is in hand, appending a Payment record for the
// authoritative transition. Confirming an already-paid order is a no-op.
type PaymentService struct {
	store         repository.Store
	stripe        TransactionVerifier
	razorpay      SignatureVerifier
	invoices      InvoiceSender
	producer      EventProducer
	eventsTopic   string
	verifyTimeout time.Duration
	notifyTimeout time.Duration
	logger        *zap.Logger
}

func NewPaymentService(
	store repository.Store,
	stripe TransactionVerifier,
	razorpay SignatureVerifier,
	invoices InvoiceSender,
	producer EventProducer,
	eventsTopic string,
	verifyTimeout, notifyTimeout time.Duration,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		store:         store,
		stripe:        stripe,
		razorpay:      razorpay,
		invoices:      invoices,
		producer:      producer,
		eventsTopic:   eventsTopic,
		verifyTimeout: verifyTimeout,
		notifyTimeout: notifyTimeout,
		logger:        logger,
	}
}

// ConfirmStripe verifies a PaymentIntent with Stripe and, on a success
// verdict, confirms the user's order.
func (s *PaymentService) ConfirmStripe(ctx context.Context, userID, orderID uuid.UUID, intentID string) (*ConfirmResult, *apperr.Error) {
	vctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	succeeded, err := s.stripe.VerifyTransaction(vctx, intentID)
	if err != nil {
		s.logger.Warn("Stripe verification failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.ErrProviderUnavailable, err)
	}
	if !succeeded {
		return nil, apperr.ErrPaymentFailed
	}

	return s.confirm(ctx, orderID, &userID, models.PaymentMethodStripe, intentID)
}

// ConfirmRazorpay authenticates the provider callback by its HMAC signature
// and, when valid, confirms the user's order. Verification failure rejects
// the call before any state is read or mutated.
func (s *PaymentService) ConfirmRazorpay(ctx context.Context, userID, orderID uuid.UUID, providerOrderID, providerPaymentID, signature string) (*ConfirmResult, *apperr.Error) {
	if !s.razorpay.VerifyPaymentSignature(providerOrderID, providerPaymentID, signature) {
		return nil, apperr.ErrInvalidSignature
	}
	return s.confirm(ctx, orderID, &userID, models.PaymentMethodRazorpay, providerPaymentID)
}

// ConfirmFromWebhook applies the paid transition for a webhook event whose
// signature the transport layer already verified. The order is looked up by
// id alone since webhooks carry no user identity.
func (s *PaymentService) ConfirmFromWebhook(ctx context.Context, orderID uuid.UUID, transactionID string) (*ConfirmResult, *apperr.Error) {
	return s.confirm(ctx, orderID, nil, models.PaymentMethodStripe, transactionID)
}

func (s *PaymentService) confirm(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID, method, transactionID string) (*ConfirmResult, *apperr.Error) {
	var order *models.Order
	var payment *models.Payment
	alreadyPaid := false

	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		o, err := tx.OrderForUpdate(ctx, orderID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if o.PaymentStatus == models.PaymentStatusPaid {
			alreadyPaid = true
			order = o
			return nil
		}

		o.PaymentStatus = models.PaymentStatusPaid
		o.Status = models.OrderStatusConfirmed
		o.PaymentTransactionID = &transactionID
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		payment = &models.Payment{
			ID:            uuid.New(),
			OrderID:       o.ID,
			UserID:        o.UserID,
			Amount:        o.FinalAmount,
			Method:        method,
			TransactionID: transactionID,
			Status:        models.PaymentOutcomeSuccess,
		}
		order = o
		return tx.CreatePayment(ctx, payment)
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		s.logger.Error("Payment confirmation transaction failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.ErrInternalServer, err)
	}

	res := &ConfirmResult{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		AlreadyPaid:   alreadyPaid,
	}

	if alreadyPaid {
		s.logger.Info("Skipping duplicate payment confirmation",
			zap.String("order_id", order.ID.String()),
			zap.String("transaction_id", transactionID),
		)
		return res, nil
	}

	s.logger.Info("Payment confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("method", method),
		zap.String("transaction_id", transactionID),
	)

	res.InvoiceSent = deliverInvoice(s.invoices, s.notifyTimeout, s.logger, order, notification.KindPaymentConfirmation)
	s.publishPaymentEvent(order, payment)

	return res, nil
}

func (s *PaymentService) publishPaymentEvent(order *models.Order, payment *models.Payment) {
	if s.producer == nil || payment == nil {
		return
	}
	evt := models.PaymentEvent{
		Type:          "payment_succeeded",
		OrderID:       order.ID.String(),
		UserID:        order.UserID.String(),
		PaymentID:     payment.ID.String(),
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount.String(),
		Timestamp:     time.Now().UTC(),
	}
	payload, _ := json.Marshal(evt)
	if err := s.producer.Publish(s.eventsTopic, []byte(evt.OrderID), payload); err != nil {
		s.logger.Warn("Failed to publish payment event",
			zap.String("order_id", evt.OrderID),
			zap.Error(err),
		)
	}
}
