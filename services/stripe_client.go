package services

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

// CreatePaymentIntent opens a PaymentIntent for an order, tagging it with
// the order id so webhook events can be routed back.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount int64, currency, orderID string) (id, clientSecret string, err error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("order_id", orderID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ID, pi.ClientSecret, nil
}

// VerifyTransaction retrieves the PaymentIntent and reports whether Stripe
// considers it succeeded.
func (s *StripeService) VerifyTransaction(ctx context.Context, ref string) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(ref, params)
	if err != nil {
		return false, err
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
