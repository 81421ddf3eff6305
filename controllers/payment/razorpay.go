package paymentControllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// gatewayConfig reads the Razorpay credentials from the environment.
func gatewayConfig() (keyID, keySecret, apiURL string, err error) {
	keyID = os.Getenv("RAZORPAY_KEY_ID")
	keySecret = os.Getenv("RAZORPAY_KEY_SECRET")
	apiURL = os.Getenv("RAZORPAY_API_URL")
	if apiURL == "" {
		apiURL = "https://api.razorpay.com/v1"
	}
	if keyID == "" || keySecret == "" {
		return "", "", "", fmt.Errorf("razorpay configuration missing")
	}
	return keyID, keySecret, apiURL, nil
}

type gatewayOrderResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// createGatewayOrder registers the order with Razorpay and returns the
// gateway order id the checkout widget needs.
func createGatewayOrder(order *models.Order, keyID, keySecret, apiURL string) (string, error) {
	payload := map[string]interface{}{
		"amount":   int(math.Round(order.FinalAmount * 100)), // paise
		"currency": "INR",
		"receipt":  fmt.Sprintf("order_%d", order.ID),
		"notes": map[string]string{
			"order_ref":     order.OrderRef,
			"customer_name": order.CustomerName,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(keyID, keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("razorpay: %s", parsed.Error.Description)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("razorpay: empty order id (status %d)", resp.StatusCode)
	}
	return parsed.ID, nil
}

// VerifySignature checks the gateway callback signature:
// HMAC-SHA256 over "order_id|payment_id" keyed with the API secret.
func VerifySignature(keySecret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	fmt.Fprintf(mac, "%s|%s", gatewayOrderID, gatewayPaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// -------- Handlers --------

type CreatePaymentRequest struct {
	OrderID uint    `json:"order_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
}

// CreateGatewayOrderHandler creates a Razorpay order for an existing
// pending order. Stock was already deducted at order placement; an
// abandoned payment leaves the order pending.
func CreateGatewayOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyID, keySecret, apiURL, err := gatewayConfig()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not configured"})
			return
		}

		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// The client echoes the amount it showed the customer; any drift
		// from the committed order total is a hard failure.
		if math.Abs(order.FinalAmount-req.Amount) > 0.01 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount mismatch"})
			return
		}

		gatewayOrderID, err := createGatewayOrder(&order, keyID, keySecret, apiURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Failed to create gateway order: %v", err)})
			return
		}

		if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).
			Updates(map[string]interface{}{
				"razorpay_order_id": gatewayOrderID,
				"status":            models.PaymentStatusProcessing,
			}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record gateway order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"razorpay_order_id": gatewayOrderID,
			"amount":            order.FinalAmount,
			"currency":          "INR",
			"key_id":            keyID,
		})
	}
}

type VerifyPaymentRequest struct {
	OrderID           uint   `json:"order_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPaymentHandler validates the checkout callback signature and, on
// success, marks the payment completed and the order confirmed. Failure
// marks the payment failed; stock is never re-touched either way.
func VerifyPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, keySecret, _, err := gatewayConfig()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not configured"})
			return
		}

		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var payment models.Payment
		if err := db.First(&payment, "order_id = ?", req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "payment record not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// The callback must reference the gateway order created for this
		// payment; a signature valid for some other order proves nothing
		// about this one.
		if payment.RazorpayOrderID == "" || payment.RazorpayOrderID != req.RazorpayOrderID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gateway order mismatch"})
			return
		}

		if !VerifySignature(keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			db.Model(&payment).Updates(map[string]interface{}{
				"status":         models.PaymentStatusFailed,
				"failure_reason": "invalid payment signature",
			})
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
			return
		}

		now := time.Now()
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&payment).Updates(map[string]interface{}{
				"razorpay_payment_id": req.RazorpayPaymentID,
				"razorpay_signature":  req.RazorpaySignature,
				"status":              models.PaymentStatusCompleted,
				"completed_at":        now,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).Where("id = ?", req.OrderID).
				Updates(map[string]interface{}{
					"status":       models.OrderStatusConfirmed,
					"confirmed_at": now,
				}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment verified successfully"})
	}
}
