package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubOrderStore serves a single order. The embedded Store is nil, so any
// other method reached is a test failure.
type stubOrderStore struct {
	repository.Store
	order *models.Order
}

func (s *stubOrderStore) OrderByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if s.order != nil && s.order.ID == orderID && s.order.UserID == userID {
		return s.order, nil
	}
	return nil, repository.ErrNotFound
}

func paidOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-20260828-120000-abcd1234",
		UserID:        uuid.New(),
		FinalAmount:   decimal.RequireFromString("3245"),
		Status:        models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
	}
}

func orderRequestContext(t *testing.T, order *models.Order) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	body, err := json.Marshal(gin.H{"order_id": order.ID})
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.UserContextKey, order.UserID)
	return c, rec
}

func TestCreateStripeIntentRejectsPaidOrder(t *testing.T) {
	order := paidOrder()
	pc := NewPaymentController(nil, nil, nil, &stubOrderStore{order: order}, zap.NewNop())

	c, rec := orderRequestContext(t, order)
	pc.CreateStripeIntent(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already paid")
}

func TestCreateRazorpayOrderRejectsPaidOrder(t *testing.T) {
	order := paidOrder()
	pc := NewPaymentController(nil, nil, nil, &stubOrderStore{order: order}, zap.NewNop())

	c, rec := orderRequestContext(t, order)
	pc.CreateRazorpayOrder(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already paid")
}
