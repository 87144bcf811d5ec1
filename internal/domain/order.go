package domain

import "time"

// Order status state machine values. Transitions are validated by the order
// workflow; rows never hold anything outside this set.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment status values recorded on the embedded payment record.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// OrderCustomer is the buyer contact info embedded into an order row.
type OrderCustomer struct {
	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:200" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
}

// ShippingAddress is the delivery address embedded into an order row.
type ShippingAddress struct {
	Line1   string `gorm:"size:200" json:"line1"`
	Line2   string `gorm:"size:200" json:"line2,omitempty"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Pincode string `gorm:"size:10" json:"pincode"`
}

// OrderProduct is the product snapshot taken at order-creation time. It is
// intentionally decoupled from the live Product row so catalog edits never
// retroactively alter historical orders.
type OrderProduct struct {
	ProductId int64   `gorm:"index" json:"product_id,string"`
	Name      string  `gorm:"size:200" json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `gorm:"size:1024" json:"image,omitempty"`
}

// OrderPayment is the gateway payment record embedded into an order row.
type OrderPayment struct {
	GatewayOrderId   string `gorm:"size:100;index" json:"gateway_order_id"`
	GatewayPaymentId string `gorm:"size:100" json:"gateway_payment_id"`
	Signature        string `gorm:"size:200" json:"signature"`
	Method           string `gorm:"size:32" json:"method"`
	Status           string `gorm:"size:32;index" json:"status"`
}

// Order is a placed order. TotalAmount == Subtotal + ShippingCharge + Tax
// holds at creation time.
type Order struct {
	ID             int64           `gorm:"primaryKey" json:"id,string"`
	OrderCode      string          `gorm:"size:32;uniqueIndex" json:"order_code"`
	Customer       OrderCustomer   `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Shipping       ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	Product        OrderProduct    `gorm:"embedded;embeddedPrefix:product_" json:"product"`
	Payment        OrderPayment    `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Subtotal       float64         `json:"subtotal"`
	ShippingCharge float64         `json:"shipping_charge"`
	Tax            float64         `json:"tax"`
	TotalAmount    float64         `json:"total_amount"`
	Status         string          `gorm:"size:32;index" json:"status"`
	TrackingNumber string          `gorm:"size:100" json:"tracking_number,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}
