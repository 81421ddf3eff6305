package models

import "time"

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending    OrderStatus = "pending"    // placed, stock already deducted
	OrderStatusConfirmed  OrderStatus = "confirmed"  // payment verified or confirmed by seller
	OrderStatusProcessing OrderStatus = "processing" // being packed
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before shipping
	OrderStatusRefunded   OrderStatus = "refunded"   // money returned

	// Payment statuses
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing" // gateway order created, awaiting callback
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"

	// Payment methods
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodWhatsApp PaymentMethod = "whatsapp"
	PaymentMethodCOD      PaymentMethod = "cod"
)

type Order struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderRef string `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID   *uint  `gorm:"index" json:"user_id,omitempty"`
	User     *User  `json:"user,omitempty"`

	// Customer info is snapshotted on the order even for logged-in users.
	CustomerName  string `gorm:"not null" json:"customer_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `gorm:"not null" json:"customer_phone"`

	ShippingAddress string `gorm:"not null" json:"shipping_address"`
	ShippingCity    string `json:"shipping_city,omitempty"`
	ShippingState   string `json:"shipping_state,omitempty"`
	ShippingPincode string `json:"shipping_pincode,omitempty"`

	TotalAmount    float64 `gorm:"not null" json:"total_amount"` // merchandise total
	DiscountAmount float64 `gorm:"default:0" json:"discount_amount"`
	ShippingFee    float64 `gorm:"default:0" json:"shipping_fee"`
	FinalAmount    float64 `gorm:"not null" json:"final_amount"` // total + shipping

	Status        OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	CustomerNotes string        `json:"customer_notes,omitempty"`

	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payment *Payment    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderItem snapshots a purchased line at order time. Immutable once the
// order is placed.
type OrderItem struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	OrderID        uint  `gorm:"index;not null" json:"order_id"`
	ProductID      uint  `gorm:"not null" json:"product_id"`
	ColorVariantID *uint `json:"color_variant_id,omitempty"`

	ProductName string `gorm:"not null" json:"product_name"`
	ProductSKU  string `json:"product_sku,omitempty"`

	SelectedSize  string `json:"selected_size,omitempty"`
	SelectedColor string `json:"selected_color,omitempty"`

	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
}

// Payment is the single transaction record attached to an order.
type Payment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"uniqueIndex;not null" json:"order_id"`

	Method PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	RazorpayOrderID   string `gorm:"index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"-"`

	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"default:'INR'" json:"currency"`

	FailureReason string `json:"failure_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
