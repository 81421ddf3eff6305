package paymentControllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	good := sign(secret, "order_abc", "pay_xyz")

	assert.True(t, VerifySignature(secret, "order_abc", "pay_xyz", good))
	assert.False(t, VerifySignature(secret, "order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, VerifySignature(secret, "order_abc", "pay_other", good))
	assert.False(t, VerifySignature("wrong_secret", "order_abc", "pay_xyz", good))
}

func TestCreateGatewayOrder(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"id": "order_gw_123"})
	}))
	defer srv.Close()

	order := &models.Order{ID: 7, OrderRef: "ref-7", CustomerName: "Asma", FinalAmount: 730.0}
	id, err := createGatewayOrder(order, "key_test", "secret_test", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "order_gw_123", id)
	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, float64(73000), gotBody["amount"]) // rupees converted to paise
	assert.Equal(t, "INR", gotBody["currency"])
	assert.Equal(t, "order_7", gotBody["receipt"])
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))
	return db
}

func postVerify(t *testing.T, db *gorm.DB, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/payments/razorpay/verify", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	VerifyPaymentHandler(db)(c)
	return w
}

func seedRazorpayOrder(t *testing.T, db *gorm.DB, gatewayOrderID string) models.Order {
	t.Helper()
	order := models.Order{
		OrderRef:        "ref-" + gatewayOrderID,
		CustomerName:    "Asma",
		CustomerPhone:   "+911234567890",
		ShippingAddress: "12 Market Road, Pune",
		TotalAmount:     700, FinalAmount: 730,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodRazorpay,
		Payment: &models.Payment{
			Method:          models.PaymentMethodRazorpay,
			Status:          models.PaymentStatusProcessing,
			RazorpayOrderID: gatewayOrderID,
			Amount:          730,
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestVerifyPaymentHandler_ConfirmsOrder(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "key_test")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret_test")
	db := testDB(t)
	order := seedRazorpayOrder(t, db, "order_gw_A")

	w := postVerify(t, db, gin.H{
		"order_id":            order.ID,
		"razorpay_order_id":   "order_gw_A",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  sign("secret_test", "order_gw_A", "pay_1"),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Order
	require.NoError(t, db.Preload("Payment").First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	assert.Equal(t, models.PaymentStatusCompleted, got.Payment.Status)
	assert.NotNil(t, got.Payment.CompletedAt)
}

// A signature that is valid for a different gateway order must not
// confirm this one.
func TestVerifyPaymentHandler_RejectsForeignGatewayOrder(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "key_test")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret_test")
	db := testDB(t)
	order := seedRazorpayOrder(t, db, "order_gw_A")

	w := postVerify(t, db, gin.H{
		"order_id":            order.ID,
		"razorpay_order_id":   "order_gw_B",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  sign("secret_test", "order_gw_B", "pay_1"),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "gateway order mismatch")

	var got models.Order
	require.NoError(t, db.Preload("Payment").First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, models.PaymentStatusProcessing, got.Payment.Status)
}

func TestVerifyPaymentHandler_BadSignatureFailsPayment(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "key_test")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret_test")
	db := testDB(t)
	order := seedRazorpayOrder(t, db, "order_gw_A")

	w := postVerify(t, db, gin.H{
		"order_id":            order.ID,
		"razorpay_order_id":   "order_gw_A",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var got models.Payment
	require.NoError(t, db.First(&got, "order_id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, got.Status)
	assert.Equal(t, "invalid payment signature", got.FailureReason)
}

func TestCreateGatewayOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "BAD_REQUEST_ERROR", "description": "amount too small"},
		})
	}))
	defer srv.Close()

	order := &models.Order{ID: 8, FinalAmount: 0.001}
	_, err := createGatewayOrder(order, "key_test", "secret_test", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
}
