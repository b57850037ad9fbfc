package controllers

import (
	"errors"
	"net/http"

	apperr "checkout-service/common/errors"
	"checkout-service/middleware"
	"checkout-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartController struct {
	Store  repository.Store
	Logger *zap.Logger
}

func NewCartController(store repository.Store, logger *zap.Logger) *CartController {
	return &CartController{Store: store, Logger: logger}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart returns the user's cart, creating it lazily on first access.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, created, err := cc.Store.FindOrCreateCart(c.Request.Context(), userID)
	if err != nil {
		cc.Logger.Error("Failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		apperr.Respond(c, err)
		return
	}

	totalAmount := decimal.Zero
	for i := range cart.Items {
		totalAmount = totalAmount.Add(cart.Items[i].TotalPrice())
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":         cart,
		"created":      created,
		"total_items":  len(cart.Items),
		"total_amount": totalAmount.String(),
	})
}

// AddItem adds a product to the cart, merging quantities for repeats.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := cc.Store.AddCartItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		cc.Logger.Error("Failed to add cart item", zap.String("user_id", userID.String()), zap.Error(err))
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart", "item": item})
}

// UpdateItem sets the quantity of a cart item.
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.Store.UpdateCartItemQuantity(c.Request.Context(), userID, itemID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// RemoveItem deletes a cart item.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := cc.Store.RemoveCartItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// GetWishlist returns the user's wishlist, creating it lazily.
func (cc *CartController) GetWishlist(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wl, created, err := cc.Store.FindOrCreateWishlist(c.Request.Context(), userID)
	if err != nil {
		cc.Logger.Error("Failed to load wishlist", zap.String("user_id", userID.String()), zap.Error(err))
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": wl, "created": created})
}

// AddWishlistItem adds a product to the wishlist.
func (cc *CartController) AddWishlistItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := cc.Store.AddWishlistItem(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		apperr.Respond(c, err)
		return
	}

	if created {
		c.JSON(http.StatusOK, gin.H{"message": "Product added to wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product already in wishlist"})
}
