package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/burhanistore/storefront-api/controllers/payment"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB) {
	payments := r.Group("/payments/razorpay")
	{
		payments.POST("/order", paymentControllers.CreateGatewayOrderHandler(db))
		payments.POST("/verify", paymentControllers.VerifyPaymentHandler(db))
	}
}
