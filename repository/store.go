package repository

import (
	"context"
	"errors"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store is the data-access surface for the checkout core. InTransaction runs
// fn against a store bound to a single database transaction; every write the
// orchestrator performs goes through such a scope.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Store) error) error

	// Carts and wishlists
	FindOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error)
	CartWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CartForCheckout(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddCartItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveCartItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, cartID uuid.UUID) error
	FindOrCreateWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, bool, error)
	AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (created bool, err error)

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	OrderForUpdate(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) error
	OrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error)

	// Inventory ledger
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// Payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
}

// GormStore implements Store using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InTransaction executes fn inside a single database transaction. The store
// passed to fn shares that transaction, so either every write in fn commits
// or none do.
func (s *GormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
