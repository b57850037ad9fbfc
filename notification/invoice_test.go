package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (s *capturingSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	s.to = to
	s.subject = subject
	s.body = body
	if s.err != nil {
		return SendResult{}, s.err
	}
	return SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

func invoiceOrder() *models.Order {
	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     "ORD-20260828-120000-abcd1234",
		UserID:          uuid.New(),
		ShippingName:    "Asha Rao",
		ShippingEmail:   "asha@example.com",
		ShippingPhone:   "9876543210",
		ShippingAddress: "12 MG Road",
		ShippingCity:    "Bengaluru",
		ShippingState:   "Karnataka",
		ShippingPincode: "560001",
		TotalAmount:     decimal.RequireFromString("2750"),
		TaxAmount:       decimal.RequireFromString("495"),
		ShippingCharges: decimal.Zero,
		FinalAmount:     decimal.RequireFromString("3245"),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		Items: []models.OrderItem{
			{
				ProductName:  "Laptop Stand",
				ProductPrice: decimal.RequireFromString("1000"),
				Quantity:     2,
				TotalPrice:   decimal.RequireFromString("2000"),
			},
			{
				ProductName:  "Mechanical Keyboard",
				ProductPrice: decimal.RequireFromString("750"),
				Quantity:     1,
				TotalPrice:   decimal.RequireFromString("750"),
			},
		},
	}
}

func TestDeliverInvoiceRendersOrder(t *testing.T) {
	sender := &capturingSender{}
	mailer := NewInvoiceMailer(sender, zap.NewNop())
	order := invoiceOrder()

	err := mailer.DeliverInvoice(context.Background(), order, KindOrderConfirmation)
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", sender.to)
	assert.Equal(t, "Order Confirmed - Invoice #"+order.OrderNumber, sender.subject)
	assert.Contains(t, sender.body, "INV-"+order.OrderNumber)
	assert.Contains(t, sender.body, "Laptop Stand")
	assert.Contains(t, sender.body, "Mechanical Keyboard")
	assert.Contains(t, sender.body, "2750")
	assert.Contains(t, sender.body, "495")
	assert.Contains(t, sender.body, "3245")
	assert.Contains(t, sender.body, "Asha Rao")
	assert.Contains(t, sender.body, "Bengaluru, Karnataka - 560001")
}

func TestDeliverInvoicePaymentKind(t *testing.T) {
	sender := &capturingSender{}
	mailer := NewInvoiceMailer(sender, zap.NewNop())
	order := invoiceOrder()

	err := mailer.DeliverInvoice(context.Background(), order, KindPaymentConfirmation)
	require.NoError(t, err)
	assert.Equal(t, "Payment Confirmed - Invoice #"+order.OrderNumber, sender.subject)
	assert.Contains(t, sender.body, "Payment Confirmed")
}

func TestDeliverInvoiceMissingRecipient(t *testing.T) {
	sender := &capturingSender{}
	mailer := NewInvoiceMailer(sender, zap.NewNop())
	order := invoiceOrder()
	order.ShippingEmail = ""

	err := mailer.DeliverInvoice(context.Background(), order, KindOrderConfirmation)
	require.Error(t, err)
	assert.Empty(t, sender.to, "no send attempt without a recipient")
}

func TestDeliverInvoiceSenderFailure(t *testing.T) {
	sender := &capturingSender{err: errors.New("smtp unreachable")}
	mailer := NewInvoiceMailer(sender, zap.NewNop())

	err := mailer.DeliverInvoice(context.Background(), invoiceOrder(), KindOrderConfirmation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp unreachable")
}
