package repository

import (
	"context"
	"errors"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOrCreateCart returns the user's cart, creating an empty one on first
// access. The bool reports whether the cart was created by this call.
func (s *GormStore) FindOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		if err := s.loadCartItems(ctx, &cart); err != nil {
			return nil, false, err
		}
		return &cart, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cart = models.Cart{ID: uuid.New(), UserID: userID}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, false, err
	}
	cart.Items = []models.CartItem{}
	return &cart, true, nil
}

// CartWithItems loads the user's cart and its items with product rows
// preloaded. Returns ErrNotFound if the user has no cart yet.
func (s *GormStore) CartWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadCartItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartForCheckout is CartWithItems with the cart row locked FOR UPDATE.
// Two concurrent checkouts for the same user serialize on this lock, so the
// second one re-reads the items after the first committed and sees the cart
// already emptied.
func (s *GormStore) CartForCheckout(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadCartItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *GormStore) loadCartItems(ctx context.Context, cart *models.Cart) error {
	return s.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("created_at ASC").
		Find(&cart.Items).Error
}

// AddCartItem adds quantity of a product to the user's cart, creating the
// cart lazily and merging into an existing line for the same product.
func (s *GormStore) AddCartItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cart, _, err := s.FindOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		item.Quantity += quantity
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, err
		}
	}

	item.Product = product
	return &item, nil
}

// UpdateCartItemQuantity sets the quantity on a cart item owned by the user.
func (s *GormStore) UpdateCartItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)", itemID, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveCartItem deletes a cart item owned by the user.
func (s *GormStore) RemoveCartItem(ctx context.Context, userID, itemID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (SELECT id FROM carts WHERE user_id = ?)", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart deletes every item in the cart. Called inside the checkout
// transaction after the order and stock decrements succeeded.
func (s *GormStore) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// FindOrCreateWishlist mirrors FindOrCreateCart for the user's wishlist.
func (s *GormStore) FindOrCreateWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, bool, error) {
	var wl models.Wishlist
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wl).Error
	if err == nil {
		if err := s.db.WithContext(ctx).
			Preload("Product").
			Where("wishlist_id = ?", wl.ID).
			Order("created_at ASC").
			Find(&wl.Items).Error; err != nil {
			return nil, false, err
		}
		return &wl, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	wl = models.Wishlist{ID: uuid.New(), UserID: userID}
	if err := s.db.WithContext(ctx).Create(&wl).Error; err != nil {
		return nil, false, err
	}
	wl.Items = []models.WishlistItem{}
	return &wl, true, nil
}

// AddWishlistItem adds a product to the wishlist; created is false when the
// product was already present.
func (s *GormStore) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	wl, _, err := s.FindOrCreateWishlist(ctx, userID)
	if err != nil {
		return false, err
	}

	var item models.WishlistItem
	err = s.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wl.ID, productID).
		First(&item).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	item = models.WishlistItem{ID: uuid.New(), WishlistID: wl.ID, ProductID: productID}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return false, err
	}
	return true, nil
}
