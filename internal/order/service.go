package order

import (
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/payment"
	"github.com/voltshop/storefront/pkg/common"
)

// Business-rule failures surfaced by the workflow. The HTTP boundary maps
// these to 4xx; anything else is a store failure and maps to 500.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPayment    = errors.New("invalid payment signature")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// CreateOrderCommand is the validated input for order creation. Handlers
// parse loose request payloads into this before the workflow runs.
type CreateOrderCommand struct {
	ProductId        int64
	Quantity         int
	Customer         domain.OrderCustomer
	Shipping         domain.ShippingAddress
	GatewayOrderId   string
	GatewayPaymentId string
	Signature        string
}

// ListFilter narrows the admin order listing.
type ListFilter struct {
	Status        string
	PaymentStatus string
	Search        string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
}

// Stats aggregates order counts per status and completed-payment revenue.
type Stats struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	ConfirmedOrders int64   `json:"confirmedOrders"`
	ShippedOrders   int64   `json:"shippedOrders"`
	DeliveredOrders int64   `json:"deliveredOrders"`
	CancelledOrders int64   `json:"cancelledOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// TrackingInfo is the public projection returned by order tracking. It must
// never carry payment or customer contact fields.
type TrackingInfo struct {
	OrderCode       string                 `json:"order_code"`
	Status          string                 `json:"status"`
	Product         domain.OrderProduct    `json:"product"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	TrackingNumber  string                 `json:"tracking_number,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
}

// Service orchestrates the order lifecycle: creation with stock reservation,
// status transitions and cancellation with stock restoration.
type Service struct {
	db       *gorm.DB
	verifier *payment.Verifier
}

func NewService(db *gorm.DB, verifier *payment.Verifier) *Service {
	return &Service{db: db, verifier: verifier}
}

// Create verifies the payment signature and persists the order together with
// a conditional stock decrement in one transaction. The conditional update
// ("stock >= quantity") serializes concurrent orders per product: two
// requests can both read sufficient stock, but only one decrement wins.
func (s *Service) Create(cmd CreateOrderCommand) (*domain.Order, error) {
	if cmd.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var product domain.Product
	if err := s.db.Where("id = ?", cmd.ProductId).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(err, "query product")
	}

	if product.Stock < cmd.Quantity {
		return nil, ErrInsufficientStock
	}

	if !s.verifier.Verify(cmd.GatewayOrderId, cmd.GatewayPaymentId, cmd.Signature) {
		zap.L().Warn("payment signature rejected",
			zap.String("gateway_order_id", cmd.GatewayOrderId),
			zap.String("gateway_payment_id", cmd.GatewayPaymentId))
		return nil, ErrInvalidPayment
	}

	subtotal := product.Price * float64(cmd.Quantity)
	shippingCharge := 0.0 // free shipping
	tax := 0.0            // tax included in price
	now := time.Now()

	order := &domain.Order{
		ID:        common.UUIDint64(),
		OrderCode: common.NextOrderCode(now),
		Customer:  cmd.Customer,
		Shipping:  cmd.Shipping,
		Product: domain.OrderProduct{
			ProductId: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  cmd.Quantity,
			Image:     product.FirstImageURL(),
		},
		Payment: domain.OrderPayment{
			GatewayOrderId:   cmd.GatewayOrderId,
			GatewayPaymentId: cmd.GatewayPaymentId,
			Signature:        cmd.Signature,
			Method:           "razorpay",
			Status:           domain.PaymentStatusCompleted,
		},
		Subtotal:       subtotal,
		ShippingCharge: shippingCharge,
		Tax:            tax,
		TotalAmount:    subtotal + shippingCharge + tax,
		Status:         domain.OrderStatusConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Product{}).
			Where("id = ? AND stock >= ?", product.ID, cmd.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", cmd.Quantity))
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "decrement stock")
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}
		if err := tx.Create(order).Error; err != nil {
			return pkgerrors.Wrap(err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.String("order_code", order.OrderCode),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", cmd.Quantity),
		zap.Float64("total", order.TotalAmount))
	return order, nil
}

// Get returns an order by internal id.
func (s *Service) Get(id int64) (*domain.Order, error) {
	var order domain.Order
	if err := s.db.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(err, "query order")
	}
	return &order, nil
}

// UpdateStatus moves an order to a new status. Transitions are validated
// against the state machine; delivered stamps the delivery timestamp; a
// tracking number is stored whenever supplied.
func (s *Service) UpdateStatus(id int64, status, trackingNumber string) (*domain.Order, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidTransition
	}
	// cancellation carries stock compensation; route it through Cancel so the
	// status path cannot skip the restore
	if status == domain.OrderStatusCancelled {
		return s.Cancel(id)
	}
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, status) {
		return nil, ErrInvalidTransition
	}

	order.Status = status
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	if status == domain.OrderStatusDelivered {
		now := time.Now()
		order.DeliveredAt = &now
	}
	order.UpdatedAt = time.Now()

	if err := s.db.Save(order).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "update order status")
	}
	return order, nil
}

// Cancel cancels an order and restores the snapshotted quantity to the
// product's stock. Orders already shipped or delivered are rejected. A
// product deleted since the order was placed skips restoration; the stock
// drift is accepted rather than blocking the cancellation.
func (s *Service) Cancel(id int64) (*domain.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !Cancellable(order.Status) {
		return nil, ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Product{}).
			Where("id = ?", order.Product.ProductId).
			UpdateColumn("stock", gorm.Expr("stock + ?", order.Product.Quantity))
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "restore stock")
		}
		if res.RowsAffected == 0 {
			zap.L().Warn("cancelled order references missing product, stock not restored",
				zap.String("order_code", order.OrderCode),
				zap.Int64("product_id", order.Product.ProductId))
		}
		order.Status = domain.OrderStatusCancelled
		order.UpdatedAt = time.Now()
		if err := tx.Save(order).Error; err != nil {
			return pkgerrors.Wrap(err, "save cancelled order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order cancelled", zap.String("order_code", order.OrderCode))
	return order, nil
}

// Track looks an order up by its public code and returns the restricted
// tracking projection.
func (s *Service) Track(orderCode string) (*TrackingInfo, error) {
	var order domain.Order
	if err := s.db.Where("order_code = ?", orderCode).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(err, "query order")
	}
	return &TrackingInfo{
		OrderCode:       order.OrderCode,
		Status:          order.Status,
		Product:         order.Product,
		ShippingAddress: order.Shipping,
		TrackingNumber:  order.TrackingNumber,
		CreatedAt:       order.CreatedAt,
		DeliveredAt:     order.DeliveredAt,
	}, nil
}

func (s *Service) listQuery(f ListFilter) *gorm.DB {
	tx := s.db.Model(&domain.Order{})
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		tx = tx.Where("payment_status = ?", f.PaymentStatus)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		tx = tx.Where(
			"LOWER(order_code) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR customer_phone LIKE ?",
			pattern, pattern, pattern, "%"+term+"%")
	}
	if f.StartDate != nil {
		tx = tx.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		tx = tx.Where("created_at <= ?", *f.EndDate)
	}
	return tx
}

// List returns a filtered page of orders newest-first plus the total count.
func (s *Service) List(f ListFilter) ([]domain.Order, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	base := s.listQuery(f)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count orders")
	}

	var orders []domain.Order
	err := base.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "query orders")
	}
	return orders, total, nil
}

// ListAll returns every order matching the filter, newest-first. Used by the
// xlsx export.
func (s *Service) ListAll(f ListFilter) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.listQuery(f).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "query orders")
	}
	return orders, nil
}

// GetStats aggregates status counts and revenue over completed payments.
func (s *Service) GetStats() (*Stats, error) {
	stats := &Stats{}
	counts := []struct {
		status string
		dest   *int64
	}{
		{"", &stats.TotalOrders},
		{domain.OrderStatusPending, &stats.PendingOrders},
		{domain.OrderStatusConfirmed, &stats.ConfirmedOrders},
		{domain.OrderStatusShipped, &stats.ShippedOrders},
		{domain.OrderStatusDelivered, &stats.DeliveredOrders},
		{domain.OrderStatusCancelled, &stats.CancelledOrders},
	}
	for _, c := range counts {
		tx := s.db.Model(&domain.Order{})
		if c.status != "" {
			tx = tx.Where("status = ?", c.status)
		}
		if err := tx.Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(err, "count orders")
		}
	}

	var revenue *float64
	err := s.db.Model(&domain.Order{}).
		Where("payment_status = ?", domain.PaymentStatusCompleted).
		Select("SUM(total_amount)").
		Scan(&revenue).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "sum revenue")
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}
	return stats, nil
}
