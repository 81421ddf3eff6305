package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

type VariantInput struct {
	ColorName string `json:"color_name" binding:"required"`
	ColorCode string `json:"color_code"`
	Stock     int    `json:"stock" binding:"min=0"`
	IsActive  *bool  `json:"is_active"`
}

type ImageInput struct {
	ImageURL     string `json:"image_url" binding:"required"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
	// ColorName attaches the image to the variant created in the same
	// request; empty means a base product image.
	ColorName string `json:"color_name"`
}

type CreateProductInput struct {
	Name            string         `json:"name" binding:"required"`
	Slug            string         `json:"slug"`
	Description     string         `json:"description"`
	OriginalPrice   float64        `json:"original_price" binding:"required,gt=0"`
	DiscountedPrice *float64       `json:"discounted_price"`
	Stock           int            `json:"stock" binding:"min=0"`
	SKU             string         `json:"sku"`
	CategoryID      *uint          `json:"category_id"`
	Sizes           string         `json:"sizes"`
	Colors          string         `json:"colors"`
	IsActive        *bool          `json:"is_active"`
	IsFeatured      bool           `json:"is_featured"`
	Variants        []VariantInput `json:"variants"`
	Images          []ImageInput   `json:"images"`
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return s
}

// CreateProduct creates a product together with its color variants and
// image records in one transaction.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Slug == "" {
			input.Slug = slugify(input.Name)
		}

		// Variant color names must be unique within the product.
		seen := make(map[string]bool)
		for _, v := range input.Variants {
			if seen[v.ColorName] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate variant color: " + v.ColorName})
				return
			}
			seen[v.ColorName] = true
		}

		product := models.Product{
			Name:            input.Name,
			Slug:            input.Slug,
			Description:     input.Description,
			OriginalPrice:   input.OriginalPrice,
			DiscountedPrice: input.DiscountedPrice,
			Stock:           input.Stock,
			SKU:             input.SKU,
			CategoryID:      input.CategoryID,
			Sizes:           input.Sizes,
			Colors:          input.Colors,
			IsActive:        input.IsActive == nil || *input.IsActive,
			IsFeatured:      input.IsFeatured,
		}
		for _, v := range input.Variants {
			product.ColorVariants = append(product.ColorVariants, models.ColorVariant{
				ColorName: v.ColorName,
				ColorCode: v.ColorCode,
				Stock:     v.Stock,
				IsActive:  v.IsActive == nil || *v.IsActive,
			})
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err
			}

			variantIDs := make(map[string]uint, len(product.ColorVariants))
			for _, v := range product.ColorVariants {
				variantIDs[v.ColorName] = v.ID
			}

			for _, img := range input.Images {
				record := models.ProductImage{
					ProductID:    product.ID,
					ImageURL:     img.ImageURL,
					AltText:      img.AltText,
					DisplayOrder: img.DisplayOrder,
					IsPrimary:    img.IsPrimary,
				}
				if img.ColorName != "" {
					id, ok := variantIDs[img.ColorName]
					if !ok {
						return gorm.ErrInvalidData
					}
					record.ColorVariantID = &id
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		var created models.Product
		if err := db.Preload("ColorVariants").Preload("Images").First(&created, product.ID).Error; err != nil {
			c.JSON(http.StatusCreated, product)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}
