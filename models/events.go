package models

import "time"

// Amounts travel as decimal strings on the wire, never as binary floats.

type OrderCreatedEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	FinalAmount string    `json:"final_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	PaymentID     string    `json:"payment_id"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	Amount        string    `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}
