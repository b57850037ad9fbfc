package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPaymentSignature(t *testing.T) {
	svc := NewRazorpayService("rzp_test_key", "secret")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_abc|pay_xyz"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, svc.VerifyPaymentSignature("order_abc", "pay_xyz", valid))
	assert.False(t, svc.VerifyPaymentSignature("order_abc", "pay_xyz", "tampered"))
	assert.False(t, svc.VerifyPaymentSignature("order_other", "pay_xyz", valid))
	assert.False(t, svc.VerifyPaymentSignature("order_abc", "pay_xyz", ""))
}

func TestRazorpayCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/orders", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_rzp1","amount":324500,"currency":"INR","receipt":"ORD-1","status":"created"}`))
	}))
	defer server.Close()

	svc := NewRazorpayService("rzp_test_key", "secret")
	svc.baseURL = server.URL

	order, err := svc.CreateOrder(context.Background(), 324500, "INR", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "order_rzp1", order.ID)
	assert.Equal(t, int64(324500), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestRazorpayCreateOrderProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"amount must be at least INR 1.00"}}`))
	}))
	defer server.Close()

	svc := NewRazorpayService("rzp_test_key", "secret")
	svc.baseURL = server.URL

	_, err := svc.CreateOrder(context.Background(), 0, "INR", "ORD-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be at least INR 1.00")
}
