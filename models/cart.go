package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the mutable pre-checkout collection for one user. It is created
// lazily on first access and emptied (never deleted) when an order is placed.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem pairs a product with a quantity. One row per product per cart;
// adding the same product again bumps the quantity instead.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TotalPrice is quantity times the product's current discounted price.
// Prices are read fresh, not snapshotted at add-to-cart time.
func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Wishlist struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
}

type WishlistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WishlistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product" json:"wishlist_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
