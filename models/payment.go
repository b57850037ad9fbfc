package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentMethodStripe   = "stripe"
	PaymentMethodRazorpay = "razorpay"

	PaymentOutcomeSuccess = "success"
)

// Payment is an append-only record of a provider outcome for an order.
// An order may accumulate several rows across retries, but only the one
// that drove the unpaid→paid transition is authoritative.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(20);not null" json:"method"`
	TransactionID string          `gorm:"not null" json:"transaction_id"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
