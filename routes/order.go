package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	orderControllers "github.com/burhanistore/storefront-api/controllers/order"
	"github.com/burhanistore/storefront-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.OptionalToken)
	orders.Use(middleware.RateLimit(rate.Every(time.Second), 20))
	{
		// Guest checkout is allowed; a bearer token attaches the order
		// to the account.
		orders.POST("/place", orderControllers.PlaceOrderHandler(db))
		orders.POST("/whatsapp", orderControllers.WhatsAppOrderHandler(db))

		orders.GET("/mine", orderControllers.GetUserOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
	}
}
