package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/burhanistore/storefront-api/controllers/cart"
	orderControllers "github.com/burhanistore/storefront-api/controllers/order"
	productcontroller "github.com/burhanistore/storefront-api/controllers/product"
	userControllers "github.com/burhanistore/storefront-api/controllers/user"
	"github.com/burhanistore/storefront-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires the
// X-API-KEY header.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// User management
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.PUT("/users/:id/active", userControllers.SetUserActive(db))
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(db))

		// Product management
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))

			productAdmin.GET("/export-stock", productcontroller.ExportStockToExcel(db))
			productAdmin.POST("/import-stock", productcontroller.ImportStockFromExcel(db))
		}

		// Variant management
		variantAdmin := adminGroup.Group("/variants")
		{
			variantAdmin.POST("/product/:id", productcontroller.AddColorVariant(db))
			variantAdmin.PUT("/:variantId", productcontroller.UpdateColorVariant(db))
			variantAdmin.DELETE("/:variantId", productcontroller.DeactivateColorVariant(db))
		}

		// Category management
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// Order management
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
			orderAdmin.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))
		}
	}
}
