package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

func Register(r *gin.Engine, cart *controllers.CartController, orders *controllers.OrderController, payments *controllers.PaymentController) {
	// Authenticated by Stripe's signature, not by a user token.
	r.POST("/webhooks/stripe", payments.StripeWebhook)

	cartRoutes := r.Group("/cart")
	cartRoutes.Use(middleware.AuthMiddleware())
	cartRoutes.GET("/", cart.GetCart)
	cartRoutes.POST("/items", cart.AddItem)
	cartRoutes.PUT("/items/:id", cart.UpdateItem)
	cartRoutes.DELETE("/items/:id", cart.RemoveItem)

	wishlistRoutes := r.Group("/wishlist")
	wishlistRoutes.Use(middleware.AuthMiddleware())
	wishlistRoutes.GET("/", cart.GetWishlist)
	wishlistRoutes.POST("/items", cart.AddWishlistItem)

	orderRoutes := r.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware())
	orderRoutes.POST("/", orders.CreateOrder)
	orderRoutes.GET("/", orders.GetOrders)
	orderRoutes.GET("/:id", orders.GetOrderByID)

	paymentRoutes := r.Group("/payments")
	paymentRoutes.Use(middleware.AuthMiddleware())
	paymentRoutes.POST("/stripe/intent", payments.CreateStripeIntent)
	paymentRoutes.POST("/stripe/confirm", payments.ConfirmStripePayment)
	paymentRoutes.POST("/razorpay/order", payments.CreateRazorpayOrder)
	paymentRoutes.POST("/razorpay/verify", payments.VerifyRazorpayPayment)
}
