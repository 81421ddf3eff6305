package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/catalog"
	"github.com/burhanistore/storefront-api/models"
)

// GetProductByID returns a single product with its variants, images and
// resolved color options.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").
			Preload("ColorVariants").
			Preload("ColorVariants.Images").
			Preload("Images", "color_variant_id IS NULL").
			First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":       product,
			"color_options": catalog.Selections(&product),
			"default_color": catalog.DefaultSelection(&product).Name,
			"unit_price":    product.UnitPrice(),
		})
	}
}
