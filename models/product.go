package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`

	// Pricing. DiscountedPrice only applies when 0 < discounted < original;
	// anything else falls back to OriginalPrice (see UnitPrice).
	OriginalPrice   float64  `gorm:"not null" json:"original_price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`

	// Stock is the base stock bucket, used only for products without
	// color variants. Variant products track stock per ColorVariant.
	Stock int    `gorm:"not null;default:0" json:"stock"`
	SKU   string `json:"sku,omitempty"`

	CategoryID *uint     `json:"category_id,omitempty"`
	Category   *Category `json:"category,omitempty"`

	// Sizes and Colors are comma-separated option lists. Colors is the
	// legacy representation kept for products never migrated to
	// structured ColorVariants.
	Sizes  string `json:"sizes,omitempty"`
	Colors string `json:"colors,omitempty"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	ColorVariants []ColorVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"color_variants,omitempty"`
	Images        []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasValidDiscount reports whether the discounted price is actually in
// effect: non-nil, above zero and strictly below the original price.
func (p *Product) HasValidDiscount() bool {
	return p.DiscountedPrice != nil && *p.DiscountedPrice > 0 && *p.DiscountedPrice < p.OriginalPrice
}

// UnitPrice returns the price a single unit sells for right now.
func (p *Product) UnitPrice() float64 {
	if p.HasValidDiscount() {
		return *p.DiscountedPrice
	}
	return p.OriginalPrice
}

// SizeList splits the comma-separated Sizes field, preserving order.
func (p *Product) SizeList() []string {
	return splitCSV(p.Sizes)
}

// LegacyColorList splits the deprecated comma-separated Colors field.
func (p *Product) LegacyColorList() []string {
	return splitCSV(p.Colors)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ColorVariant is a color-specific sub-entity of a product with its own
// stock bucket and images. ColorName is unique within a product.
type ColorVariant struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"not null;index;uniqueIndex:idx_product_color" json:"product_id"`
	ColorName string `gorm:"not null;uniqueIndex:idx_product_color" json:"color_name"`
	ColorCode string `json:"color_code,omitempty"` // display-only hex, e.g. "#1f2d56"
	Stock     int    `gorm:"not null;default:0" json:"stock"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	Images []ProductImage `gorm:"foreignKey:ColorVariantID" json:"images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductImage belongs to the base product when ColorVariantID is nil,
// otherwise to that color variant. At most one image per variant should
// carry IsPrimary.
type ProductImage struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID      uint   `gorm:"not null;index" json:"product_id"`
	ColorVariantID *uint  `gorm:"index" json:"color_variant_id,omitempty"`
	ImageURL       string `gorm:"not null" json:"image_url"`
	AltText        string `json:"alt_text,omitempty"`
	DisplayOrder   int    `gorm:"default:0" json:"display_order"`
	IsPrimary      bool   `gorm:"default:false" json:"is_primary"`

	CreatedAt time.Time `json:"created_at"`
}
