package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/auth"
	"github.com/burhanistore/storefront-api/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. Credential
// endpoints are rate-limited per client IP against brute forcing.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Every(time.Second), 10))
	{
		authGroup.POST("/register", auth.RegisterHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
		authGroup.POST("/refresh", auth.RefreshHandler(db))
		authGroup.POST("/logout", auth.LogoutHandler(db))
	}
}
