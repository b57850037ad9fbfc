package controllers

import (
	"errors"
	"net/http"
	"strconv"

	apperr "checkout-service/common/errors"
	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/repository"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderController struct {
	Checkout *services.CheckoutService
	Store    repository.Store
	Logger   *zap.Logger
}

func NewOrderController(checkout *services.CheckoutService, store repository.Store, logger *zap.Logger) *OrderController {
	return &OrderController{Checkout: checkout, Store: store, Logger: logger}
}

type orderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   metaData       `json:"meta"`
}

type metaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// CreateOrder runs the checkout transaction for the caller's cart. An
// optional Idempotency-Key header makes retries safe.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var details services.ShippingDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idemKey := c.GetHeader("Idempotency-Key")

	summary, aerr := oc.Checkout.PlaceOrder(c.Request.Context(), userID, details, idemKey)
	if aerr != nil {
		c.JSON(aerr.Code, gin.H{"error": aerr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order created successfully",
		"order_id":     summary.OrderID,
		"order_number": summary.OrderNumber,
		"final_amount": summary.FinalAmount.String(),
		"invoice_sent": summary.InvoiceSent,
	})
}

// GetOrders returns the caller's orders, paginated.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	orders, total, err := oc.Store.OrdersByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		oc.Logger.Error("Failed to fetch orders", zap.String("user_id", userID.String()), zap.Error(err))
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, orderListResponse{
		Orders: orders,
		Meta: metaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	})
}

// GetOrderByID returns one of the caller's orders.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := oc.Store.OrderByIDAndUser(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		oc.Logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
