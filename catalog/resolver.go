// Package catalog resolves which stock bucket a product selection draws
// from: a color variant's own stock when the product has structured
// variants, or the product's base stock for legacy products.
package catalog

import "github.com/burhanistore/storefront-api/models"

type StockSource string

const (
	SourceVariant StockSource = "variant"
	SourceBase    StockSource = "base"
)

// Resolution is the outcome of resolving a (product, color) selection.
// AvailableQty of zero means the selection is not purchasable; callers
// must disable purchase actions rather than fall back to base stock.
type Resolution struct {
	Source       StockSource
	AvailableQty int
	VariantID    *uint
}

// Purchasable reports whether anything can be ordered for this selection.
func (r Resolution) Purchasable() bool {
	return r.AvailableQty > 0
}

// Resolve determines the stock-bearing entity for a selected color.
//
// Products with color variants only sell through an active variant whose
// name matches the selection; no match means quantity zero, never a
// silent fallback to base stock. Products without variants sell from
// base stock, and the selected color is advisory metadata only.
func Resolve(p *models.Product, selectedColor string) Resolution {
	if len(p.ColorVariants) == 0 {
		return Resolution{Source: SourceBase, AvailableQty: p.Stock}
	}
	for i := range p.ColorVariants {
		v := &p.ColorVariants[i]
		if v.IsActive && v.ColorName == selectedColor {
			return Resolution{Source: SourceVariant, AvailableQty: v.Stock, VariantID: &v.ID}
		}
	}
	return Resolution{Source: SourceVariant, AvailableQty: 0}
}

// ColorSelection is a color option resolved once at product load time.
// Variant is nil for legacy comma-separated colors.
type ColorSelection struct {
	Name    string               `json:"name"`
	Variant *models.ColorVariant `json:"variant,omitempty"`
}

// IsLegacy reports whether this option came from the deprecated
// comma-separated Colors field.
func (s ColorSelection) IsLegacy() bool { return s.Variant == nil }

// Selections lists the selectable colors for a product in display order.
// Inactive variants are excluded. Legacy colors are only offered when the
// product has no structured variants at all.
func Selections(p *models.Product) []ColorSelection {
	if len(p.ColorVariants) > 0 {
		var out []ColorSelection
		for i := range p.ColorVariants {
			v := &p.ColorVariants[i]
			if v.IsActive {
				out = append(out, ColorSelection{Name: v.ColorName, Variant: v})
			}
		}
		return out
	}
	var out []ColorSelection
	for _, name := range p.LegacyColorList() {
		out = append(out, ColorSelection{Name: name})
	}
	return out
}

// DefaultSelection picks the color preselected on product load: the
// first active variant in provided order, else the first legacy color.
// The empty selection means the product has no color options.
func DefaultSelection(p *models.Product) ColorSelection {
	opts := Selections(p)
	if len(opts) == 0 {
		return ColorSelection{}
	}
	return opts[0]
}
