package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/burhanistore/storefront-api/models"
)

func variantProduct() *models.Product {
	return &models.Product{
		ID:            1,
		Name:          "T-Shirt",
		OriginalPrice: 499,
		Stock:         99, // base stock must never be consulted for variant products
		ColorVariants: []models.ColorVariant{
			{ID: 11, ProductID: 1, ColorName: "Navy Blue", Stock: 50, IsActive: true},
			{ID: 12, ProductID: 1, ColorName: "Maroon", Stock: 7, IsActive: true},
			{ID: 13, ProductID: 1, ColorName: "Olive", Stock: 30, IsActive: false},
		},
	}
}

func TestResolve_MatchingActiveVariant(t *testing.T) {
	p := variantProduct()

	res := Resolve(p, "Navy Blue")
	assert.Equal(t, SourceVariant, res.Source)
	assert.Equal(t, 50, res.AvailableQty)
	if assert.NotNil(t, res.VariantID) {
		assert.Equal(t, uint(11), *res.VariantID)
	}
	assert.True(t, res.Purchasable())
}

func TestResolve_InactiveVariantNotPurchasable(t *testing.T) {
	p := variantProduct()

	res := Resolve(p, "Olive")
	assert.Equal(t, SourceVariant, res.Source)
	assert.Equal(t, 0, res.AvailableQty)
	assert.Nil(t, res.VariantID)
	assert.False(t, res.Purchasable())
}

func TestResolve_UnknownColorNotPurchasable(t *testing.T) {
	p := variantProduct()

	res := Resolve(p, "Hot Pink")
	assert.Equal(t, 0, res.AvailableQty)
	assert.Nil(t, res.VariantID)
}

func TestResolve_LegacyProductUsesBaseStock(t *testing.T) {
	p := &models.Product{ID: 2, Name: "Scarf", Stock: 12, Colors: "Red,Blue,Green"}

	// Color is advisory only; every color resolves to base stock.
	for _, color := range []string{"Red", "Blue", "Green", "Anything"} {
		res := Resolve(p, color)
		assert.Equal(t, SourceBase, res.Source)
		assert.Equal(t, 12, res.AvailableQty)
		assert.Nil(t, res.VariantID)
	}
}

func TestSelections_VariantsExcludeInactive(t *testing.T) {
	p := variantProduct()

	opts := Selections(p)
	if assert.Len(t, opts, 2) {
		assert.Equal(t, "Navy Blue", opts[0].Name)
		assert.Equal(t, "Maroon", opts[1].Name)
		assert.False(t, opts[0].IsLegacy())
	}
}

func TestSelections_LegacyFallback(t *testing.T) {
	p := &models.Product{Colors: "Red, Blue ,Green"}

	opts := Selections(p)
	if assert.Len(t, opts, 3) {
		assert.Equal(t, "Red", opts[0].Name)
		assert.Equal(t, "Blue", opts[1].Name)
		assert.True(t, opts[0].IsLegacy())
	}
}

func TestDefaultSelection(t *testing.T) {
	assert.Equal(t, "Navy Blue", DefaultSelection(variantProduct()).Name)

	legacy := &models.Product{Colors: "Black,White"}
	assert.Equal(t, "Black", DefaultSelection(legacy).Name)

	plain := &models.Product{Stock: 3}
	assert.Equal(t, "", DefaultSelection(plain).Name)
}

func TestResolve_VariantsAllInactiveFallsBackNowhere(t *testing.T) {
	p := &models.Product{
		ID:    3,
		Stock: 40,
		ColorVariants: []models.ColorVariant{
			{ID: 31, ProductID: 3, ColorName: "Beige", Stock: 10, IsActive: false},
		},
	}

	res := Resolve(p, "Beige")
	assert.Equal(t, SourceVariant, res.Source)
	assert.Equal(t, 0, res.AvailableQty)
}
