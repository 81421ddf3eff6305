package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/burhanistore/storefront-api/controllers/cart"
	productcontroller "github.com/burhanistore/storefront-api/controllers/product"
	userControllers "github.com/burhanistore/storefront-api/controllers/user"
	"github.com/burhanistore/storefront-api/middleware"
)

// SetupStorefrontRoutes registers the public browse and cart endpoints.
// They serve anonymous sessions (X-Session-ID header) and logged-in
// users (bearer token) through the same handlers.
func SetupStorefrontRoutes(r *gin.Engine, db *gorm.DB) {
	store := r.Group("/")
	store.Use(middleware.OptionalToken)
	{
		store.GET("/products", productcontroller.GetProducts(db))
		store.GET("/products/:id", productcontroller.GetProductByID(db))
		store.GET("/categories", productcontroller.GetAllCategories(db))
		store.GET("/categories/:slug", productcontroller.GetCategoryBySlug(db))

		cartGroup := store.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(db))
			cartGroup.POST("/items", cartControllers.AddCartItem(db))
			cartGroup.PUT("/items", cartControllers.UpdateCartItemQuantity(db))
			cartGroup.DELETE("/items", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("", cartControllers.ClearCart(db))
		}
	}
}

// SetupUserRoutes registers all "/user/*" endpoints. Requires a JWT.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("", userControllers.GetUser(db))
		userGroup.PUT("", userControllers.UpdateUser(db))
		userGroup.PUT("/password", userControllers.ChangePassword(db))
	}
}
