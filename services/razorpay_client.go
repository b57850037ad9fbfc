package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayService talks to the Razorpay Orders API over HTTP and verifies
// payment signatures locally with the key secret.
type RazorpayService struct {
	KeyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	return &RazorpayService{
		KeyID:     keyID,
		keySecret: keySecret,
		baseURL:   razorpayBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers an order with Razorpay. Amount is in the currency's
// smallest unit (paise).
func (s *RazorpayService) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RazorpayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.KeyID, s.keySecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Description != "" {
			return nil, fmt.Errorf("razorpay order failed: %s", errResp.Error.Description)
		}
		return nil, fmt.Errorf("razorpay returned %d", resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPaymentSignature checks the HMAC-SHA256 signature Razorpay computes
// over "<order_id>|<payment_id>" with the key secret.
func (s *RazorpayService) VerifyPaymentSignature(providerOrderID, providerPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
