package cartControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/cart"
	"github.com/burhanistore/storefront-api/catalog"
	"github.com/burhanistore/storefront-api/models"
)

type CartItemInput struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	SelectedSize  string `json:"selected_size"`
	SelectedColor string `json:"selected_color"`
}

type UpdateQuantityInput struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	SelectedSize  string `json:"selected_size"`
	SelectedColor string `json:"selected_color"`
}

// sessionKey identifies the cart: the authenticated user when present,
// otherwise the device session header. Carts never sync across devices.
func sessionKey(c *gin.Context) (string, bool) {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return fmt.Sprintf("user:%d", id), true
		}
	}
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return "session:" + sid, true
	}
	return "", false
}

func openLedger(c *gin.Context, db *gorm.DB) (*cart.Ledger, bool) {
	key, ok := sessionKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header or authentication required"})
		return nil, false
	}
	return cart.NewLedger(cart.NewGormStore(db, key)), true
}

func cartView(l *cart.Ledger) gin.H {
	subtotal := l.Subtotal()
	return gin.H{
		"items":        l.Items(),
		"item_count":   l.ItemCount(),
		"subtotal":     subtotal,
		"shipping_fee": cart.ShippingFee(subtotal),
		"grand_total":  l.GrandTotal(),
	}
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger, ok := openLedger(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cartView(ledger))
	}
}

// POST /cart
// Adds a line item, merging into an existing row with the same
// (product, size, color) identity.
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.Preload("ColorVariants").Preload("ColorVariants.Images").Preload("Images").
			First(&product, "id = ? AND is_active = ?", input.ProductID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		// A selection that resolves to nothing must not enter the cart;
		// the quantity bound itself is only enforced at order placement.
		res := catalog.Resolve(&product, input.SelectedColor)
		if len(product.ColorVariants) > 0 && res.VariantID == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("%s is not available in %q", product.Name, input.SelectedColor),
				"code":  "INVALID_VARIANT",
			})
			return
		}
		// Zero available means sold out: the purchase action is disabled,
		// never queued.
		if !res.Purchasable() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("%s is sold out", product.Name),
				"code":  "INSUFFICIENT_STOCK",
			})
			return
		}

		ledger, ok := openLedger(c, db)
		if !ok {
			return
		}
		ledger.Add(&product, input.Quantity, input.SelectedSize, input.SelectedColor)
		c.JSON(http.StatusOK, cartView(ledger))
	}
}

// PUT /cart
// Replaces a row's quantity. Quantities below 1 leave the row unchanged.
func UpdateCartItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ledger, ok := openLedger(c, db)
		if !ok {
			return
		}
		ledger.UpdateQuantity(input.ProductID, input.SelectedSize, input.SelectedColor, input.Quantity)
		c.JSON(http.StatusOK, cartView(ledger))
	}
}

// DELETE /cart/item
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ProductID     uint   `json:"product_id" binding:"required"`
			SelectedSize  string `json:"selected_size"`
			SelectedColor string `json:"selected_color"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ledger, ok := openLedger(c, db)
		if !ok {
			return
		}
		ledger.Remove(input.ProductID, input.SelectedSize, input.SelectedColor)
		c.JSON(http.StatusOK, cartView(ledger))
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger, ok := openLedger(c, db)
		if !ok {
			return
		}
		ledger.Clear()
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		ledger := cart.NewLedger(cart.NewGormStore(db, "user:"+userID))
		c.JSON(http.StatusOK, cartView(ledger))
	}
}
