package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Product is the catalog entry whose stock this service mutates at checkout.
// Catalog management itself lives elsewhere; here the row is read for pricing
// and its stock_quantity is decremented through the inventory queries only.
type Product struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string          `gorm:"not null" json:"name"`
	SKU                string          `gorm:"uniqueIndex;not null" json:"sku"`
	Price              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	StockQuantity      int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	IsActive           bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// DiscountedPrice returns the effective unit price after the product's
// discount, rounded to 2 decimal places.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercentage.IsPositive() {
		discount := p.Price.Mul(p.DiscountPercentage).Div(oneHundred)
		return p.Price.Sub(discount).Round(2)
	}
	return p.Price
}
