package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

type variantCreateInput struct {
	ColorName string       `json:"color_name" binding:"required"`
	ColorCode string       `json:"color_code"`
	Stock     int          `json:"stock"`
	IsActive  *bool        `json:"is_active"`
	Images    []ImageInput `json:"images"`
}

type variantUpdateInput struct {
	ColorCode *string `json:"color_code"`
	Stock     *int    `json:"stock"`
	IsActive  *bool   `json:"is_active"`
}

// AddColorVariant creates a new color bucket under a product. The color
// name must be unique within the product.
func AddColorVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		var input variantCreateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		colorName := strings.TrimSpace(input.ColorName)
		if colorName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "color_name is required"})
			return
		}
		if input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
			return
		}

		var count int64
		db.Model(&models.ColorVariant{}).
			Where("product_id = ? AND color_name = ?", product.ID, colorName).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "A variant with this color already exists"})
			return
		}

		variant := models.ColorVariant{
			ProductID: product.ID,
			ColorName: colorName,
			ColorCode: input.ColorCode,
			Stock:     input.Stock,
			IsActive:  true,
		}
		if input.IsActive != nil {
			variant.IsActive = *input.IsActive
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			for _, img := range input.Images {
				variantID := variant.ID
				record := models.ProductImage{
					ProductID:      product.ID,
					ColorVariantID: &variantID,
					ImageURL:       img.ImageURL,
					AltText:        img.AltText,
					IsPrimary:      img.IsPrimary,
					DisplayOrder:   img.DisplayOrder,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variant"})
			return
		}

		c.JSON(http.StatusCreated, variant)
	}
}

// UpdateColorVariant applies a partial update (stock, color code, active
// flag) to a variant. Stock here is an absolute correction, not a delta.
func UpdateColorVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID := c.Param("variantId")

		var variant models.ColorVariant
		if err := db.First(&variant, "id = ?", variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch variant"})
			return
		}

		var input variantUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.ColorCode != nil {
			updates["color_code"] = *input.ColorCode
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		if err := db.Model(&variant).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update variant"})
			return
		}

		c.JSON(http.StatusOK, variant)
	}
}

// DeactivateColorVariant hides a variant from shoppers without touching
// its remaining stock count.
func DeactivateColorVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID := c.Param("variantId")

		result := db.Model(&models.ColorVariant{}).
			Where("id = ?", variantID).
			Update("is_active", false)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate variant"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Variant deactivated"})
	}
}
