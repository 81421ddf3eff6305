package orderControllers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

type WhatsAppOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerPhone   string             `json:"customer_phone" binding:"required"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	CustomerNotes   string             `json:"customer_notes"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// WhatsAppOrderHandler places the order through the normal commit path
// (stock deducted, order pending) and hands the customer a prefilled
// WhatsApp message to confirm it with the store.
func WhatsAppOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WhatsAppOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeValidation})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := PlaceOrder(ctx, db, currentUserID(c), PlaceOrderRequest{
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			ShippingAddress: req.ShippingAddress,
			CustomerNotes:   req.CustomerNotes,
			PaymentMethod:   models.PaymentMethodWhatsApp,
			Items:           req.Items,
		})
		if err != nil {
			respondOrderError(c, err)
			return
		}

		broadcastNewOrder(*order)

		message := buildWhatsAppMessage(order)
		link := fmt.Sprintf("https://api.whatsapp.com/send?phone=%s&text=%s",
			os.Getenv("WHATSAPP_BUSINESS_NUMBER"), url.QueryEscape(message))

		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"order_ref":    order.OrderRef,
			"whatsapp_url": link,
			"message":      message,
		})
	}
}

func buildWhatsAppMessage(order *models.Order) string {
	var b strings.Builder
	b.WriteString("*New Order from Burhani Collection*\n\n")
	fmt.Fprintf(&b, "*Order Ref:* %s\n", order.OrderRef)
	fmt.Fprintf(&b, "*Customer:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "*Phone:* %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "*Address:* %s\n\n", order.ShippingAddress)
	b.WriteString("*Items:*\n")

	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s", item.ProductName)
		if item.SelectedSize != "" || item.SelectedColor != "" {
			b.WriteString(" (")
			if item.SelectedSize != "" {
				b.WriteString(item.SelectedSize)
			}
			if item.SelectedColor != "" {
				if item.SelectedSize != "" {
					b.WriteString(" | ")
				}
				b.WriteString(item.SelectedColor)
			}
			b.WriteString(")")
		}
		fmt.Fprintf(&b, " x %d - ₹%.2f\n", item.Quantity, item.TotalPrice)
	}

	fmt.Fprintf(&b, "\n*Total Amount:* ₹%.2f\n", order.FinalAmount)
	b.WriteString("*Payment:* Cash on Delivery\n\n")
	b.WriteString("Please confirm this order. Thank you!")
	return b.String()
}
