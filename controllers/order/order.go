package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/cart"
	"github.com/burhanistore/storefront-api/catalog"
	"github.com/burhanistore/storefront-api/models"
)

// Machine-readable failure codes returned to clients.
const (
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidVariant    = "INVALID_VARIANT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeContention        = "ORDER_CONTENTION" // transient, safe to retry
)

// OrderError is a request-level order failure. The cart is never touched
// on failure, so the customer can adjust quantities and retry.
type OrderError struct {
	Code      string
	ProductID uint
	VariantID *uint
	Message   string
}

func (e *OrderError) Error() string { return e.Message }

// -------- Request Structs --------

type OrderItemRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	SelectedSize  string `json:"selected_size"`
	SelectedColor string `json:"selected_color"`
}

type PlaceOrderRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone" binding:"required"`
	ShippingAddress string               `json:"shipping_address" binding:"required"`
	ShippingCity    string               `json:"shipping_city"`
	ShippingState   string               `json:"shipping_state"`
	ShippingPincode string               `json:"shipping_pincode"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" binding:"required"`
	CustomerNotes   string               `json:"customer_notes"`
	Items           []OrderItemRequest   `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status models.PaymentStatus `json:"status" binding:"required"`
}

// -------- Helpers --------

func validPaymentMethod(m models.PaymentMethod) bool {
	switch m {
	case models.PaymentMethodRazorpay, models.PaymentMethodWhatsApp, models.PaymentMethodCOD:
		return true
	}
	return false
}

func validOrderStatus(s models.OrderStatus) bool {
	switch models.OrderStatus(strings.ToLower(string(s))) {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled,
		models.OrderStatusRefunded:
		return true
	}
	return false
}

func validPaymentStatus(s models.PaymentStatus) bool {
	switch models.PaymentStatus(strings.ToLower(string(s))) {
	case models.PaymentStatusPending, models.PaymentStatusProcessing, models.PaymentStatusCompleted,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
		return true
	}
	return false
}

// generateOrderRef returns a unique, human-quotable order reference.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// PlaceOrder re-validates every line against current stock and commits
// the order atomically: each line's stock bucket (variant or base) is
// decremented with a guarded UPDATE inside one transaction, so either
// every decrement and the order land together or nothing does.
//
// The client's cart snapshot is advisory only; stock source and price
// are re-resolved here at commit time.
func PlaceOrder(ctx context.Context, db *gorm.DB, userID *uint, req PlaceOrderRequest) (*models.Order, error) {
	if !validPaymentMethod(req.PaymentMethod) {
		return nil, &OrderError{Code: CodeValidation, Message: fmt.Sprintf("unknown payment method %q", req.PaymentMethod)}
	}

	var order models.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total, discount float64
		var items []models.OrderItem

		for _, line := range req.Items {
			var product models.Product
			if err := tx.Preload("ColorVariants").
				First(&product, "id = ? AND is_active = ?", line.ProductID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &OrderError{
						Code:      CodeValidation,
						ProductID: line.ProductID,
						Message:   fmt.Sprintf("product %d not found or inactive", line.ProductID),
					}
				}
				return err
			}

			res := catalog.Resolve(&product, line.SelectedColor)
			if len(product.ColorVariants) > 0 {
				if line.SelectedColor == "" {
					return &OrderError{
						Code:      CodeValidation,
						ProductID: product.ID,
						Message:   fmt.Sprintf("%s requires a color selection", product.Name),
					}
				}
				if res.VariantID == nil {
					return &OrderError{
						Code:      CodeInvalidVariant,
						ProductID: product.ID,
						Message:   fmt.Sprintf("%s is not available in %q", product.Name, line.SelectedColor),
					}
				}
			}
			if product.Sizes != "" && line.SelectedSize == "" {
				return &OrderError{
					Code:      CodeValidation,
					ProductID: product.ID,
					Message:   fmt.Sprintf("%s requires a size selection", product.Name),
				}
			}
			if res.AvailableQty < line.Quantity {
				return insufficientStock(&product, line, res.VariantID, res.AvailableQty)
			}

			// Guarded decrement: the WHERE clause re-checks stock in the
			// same statement that takes the row lock, so two concurrent
			// orders can never both pass on the last units.
			var dec *gorm.DB
			if res.VariantID != nil {
				dec = tx.Model(&models.ColorVariant{}).
					Where("id = ? AND stock >= ?", *res.VariantID, line.Quantity).
					UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			} else {
				dec = tx.Model(&models.Product{}).
					Where("id = ? AND stock >= ?", product.ID, line.Quantity).
					UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			}
			if dec.Error != nil {
				return dec.Error
			}
			if dec.RowsAffected == 0 {
				return insufficientStock(&product, line, res.VariantID, res.AvailableQty)
			}

			unit := product.UnitPrice()
			if product.HasValidDiscount() {
				discount += (product.OriginalPrice - unit) * float64(line.Quantity)
			}
			lineTotal := unit * float64(line.Quantity)
			total += lineTotal

			items = append(items, models.OrderItem{
				ProductID:      product.ID,
				ColorVariantID: res.VariantID,
				ProductName:    product.Name,
				ProductSKU:     product.SKU,
				SelectedSize:   line.SelectedSize,
				SelectedColor:  line.SelectedColor,
				UnitPrice:      unit,
				Quantity:       line.Quantity,
				TotalPrice:     lineTotal,
			})
		}

		shipping := cart.ShippingFee(total)
		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingState:   req.ShippingState,
			ShippingPincode: req.ShippingPincode,
			TotalAmount:     total,
			DiscountAmount:  discount,
			ShippingFee:     shipping,
			FinalAmount:     total + shipping,
			Status:          models.OrderStatusPending,
			PaymentMethod:   req.PaymentMethod,
			CustomerNotes:   req.CustomerNotes,
			Items:           items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		payment := models.Payment{
			OrderID: order.ID,
			Method:  req.PaymentMethod,
			Status:  models.PaymentStatusPending,
			Amount:  order.FinalAmount,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		order.Payment = &payment
		return nil
	})
	if err != nil {
		var oe *OrderError
		if errors.As(err, &oe) {
			return nil, oe
		}
		// Lock waits cut short by the request deadline are retryable,
		// not a stock problem.
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, &OrderError{Code: CodeContention, Message: "order could not be committed in time, please retry"}
		}
		return nil, err
	}
	return &order, nil
}

func insufficientStock(p *models.Product, line OrderItemRequest, variantID *uint, available int) *OrderError {
	name := p.Name
	if line.SelectedColor != "" {
		name = fmt.Sprintf("%s (%s)", p.Name, line.SelectedColor)
	}
	return &OrderError{
		Code:      CodeInsufficientStock,
		ProductID: p.ID,
		VariantID: variantID,
		Message:   fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, available, line.Quantity),
	}
}

// respondOrderError maps an order failure onto an HTTP response.
func respondOrderError(c *gin.Context, err error) {
	var oe *OrderError
	if !errors.As(err, &oe) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}
	status := http.StatusBadRequest
	switch oe.Code {
	case CodeInsufficientStock:
		status = http.StatusConflict
	case CodeContention:
		status = http.StatusServiceUnavailable
	}
	body := gin.H{"error": oe.Message, "code": oe.Code}
	if oe.ProductID != 0 {
		body["product_id"] = oe.ProductID
	}
	if oe.VariantID != nil {
		body["color_variant_id"] = *oe.VariantID
	}
	c.JSON(status, body)
}

// -------- Handlers --------

// PlaceOrderHandler creates a pending order from the submitted line items.
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeValidation})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := PlaceOrder(ctx, db, currentUserID(c), req)
		if err != nil {
			respondOrderError(c, err)
			return
		}

		broadcastNewOrder(*order)
		c.JSON(http.StatusCreated, order)
	}
}

// currentUserID reads the authenticated user id set by the JWT
// middleware, if any. Guest checkout leaves it nil.
func currentUserID(c *gin.Context) *uint {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

// GetAllOrdersHandler lists orders for the admin dashboard, newest first.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Preload("Payment").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			if !validOrderStatus(models.OrderStatus(status)) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			query = query.Where("status = ?", strings.ToLower(status))
		}
		var orders []models.Order
		if err := query.Limit(100).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetUserOrdersHandler lists the authenticated user's orders.
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if userID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := db.Where("user_id = ?", *userID).
			Preload("Items").
			Preload("Payment").
			Order("created_at DESC").
			Limit(50).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler fetches one order by numeric id or order ref.
// The two lookups must stay separate: order refs are not numeric, and
// binding one against the bigint id column fails the whole statement
// on Postgres.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		query := db.Preload("Items").Preload("Payment")
		if numericID, err := strconv.ParseUint(id, 10, 64); err == nil {
			query = query.Where("id = ?", numericID)
		} else {
			query = query.Where("order_ref = ?", id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler moves an order through its lifecycle and
// stamps the matching timestamp on first entry into a state.
//
// Cancelling does not restock: stock was deducted when the order was
// created. TODO: decide a restock policy for cancelled unpaid orders
// once refund handling lands.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus := models.OrderStatus(strings.ToLower(string(req.Status)))
		if !validOrderStatus(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		order.Status = newStatus
		switch newStatus {
		case models.OrderStatusConfirmed:
			if order.ConfirmedAt == nil {
				order.ConfirmedAt = &now
			}
		case models.OrderStatusShipped:
			if order.ShippedAt == nil {
				order.ShippedAt = &now
			}
		case models.OrderStatusDelivered:
			if order.DeliveredAt == nil {
				order.DeliveredAt = &now
			}
		}

		if err := db.Save(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdatePaymentStatusHandler updates the payment record attached to an
// order (admin tooling for manual reconciliation).
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus := models.PaymentStatus(strings.ToLower(string(req.Status)))
		if !validPaymentStatus(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
			return
		}

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == models.PaymentStatusCompleted {
			updates["completed_at"] = time.Now()
		}
		result := db.Model(&models.Payment{}).Where("order_id = ?", orderID).Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment record not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
