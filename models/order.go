package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Order is the immutable record of a completed checkout. Shipping details,
// line items and amounts are frozen at creation; only Status, PaymentStatus
// and PaymentTransactionID transition afterwards.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	ShippingName    string `gorm:"not null" json:"shipping_name"`
	ShippingEmail   string `gorm:"not null" json:"shipping_email"`
	ShippingPhone   string `gorm:"not null" json:"shipping_phone"`
	ShippingAddress string `gorm:"not null" json:"shipping_address"`
	ShippingCity    string `gorm:"not null" json:"shipping_city"`
	ShippingState   string `gorm:"not null" json:"shipping_state"`
	ShippingPincode string `gorm:"not null" json:"shipping_pincode"`
	Notes           string `json:"notes"`

	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax_amount"`
	ShippingCharges decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"shipping_charges"`
	FinalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"final_amount"`

	Status               string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus        string  `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaymentTransactionID *string `gorm:"type:varchar(255)" json:"payment_transaction_id,omitempty"`

	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a frozen snapshot of product name and price at the moment the
// order was created, decoupled from later product changes.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName  string          `gorm:"not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"product_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
}
