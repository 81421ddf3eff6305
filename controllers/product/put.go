package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

type UpdateProductInput struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	OriginalPrice   *float64 `json:"original_price"`
	DiscountedPrice *float64 `json:"discounted_price"`
	Stock           *int     `json:"stock"`
	SKU             *string  `json:"sku"`
	CategoryID      *uint    `json:"category_id"`
	Sizes           *string  `json:"sizes"`
	Colors          *string  `json:"colors"`
	IsActive        *bool    `json:"is_active"`
	IsFeatured      *bool    `json:"is_featured"`
}

// UpdateProduct applies a partial update; only fields present in the
// body are touched. Variant stock is managed through the variant
// endpoints, not here.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.OriginalPrice != nil {
			if *input.OriginalPrice <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "original_price must be positive"})
				return
			}
			updates["original_price"] = *input.OriginalPrice
		}
		if input.DiscountedPrice != nil {
			updates["discounted_price"] = *input.DiscountedPrice
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.SKU != nil {
			updates["sku"] = *input.SKU
		}
		if input.CategoryID != nil {
			updates["category_id"] = *input.CategoryID
		}
		if input.Sizes != nil {
			updates["sizes"] = *input.Sizes
		}
		if input.Colors != nil {
			updates["colors"] = *input.Colors
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.IsFeatured != nil {
			updates["is_featured"] = *input.IsFeatured
		}

		if len(updates) == 0 {
			c.JSON(http.StatusOK, product)
			return
		}

		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
