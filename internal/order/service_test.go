package order

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/payment"
	"github.com/voltshop/storefront/pkg/common"
)

const testSecret = "test-gateway-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := newTestDB(t)
	return NewService(db, payment.NewVerifier(testSecret)), db
}

func seedProduct(t *testing.T, db *gorm.DB, price float64, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		ID:          common.UUIDint64(),
		Name:        "USB Cable",
		Slug:        fmt.Sprintf("usb-cable-%d", common.UUIDint64()),
		Price:       price,
		Description: "braided usb cable",
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func signedCommand(productId int64, quantity int) CreateOrderCommand {
	verifier := payment.NewVerifier(testSecret)
	gatewayOrderId := fmt.Sprintf("order_rcpt_%d", productId)
	gatewayPaymentId := fmt.Sprintf("pay_%d", quantity)
	return CreateOrderCommand{
		ProductId:        productId,
		Quantity:         quantity,
		Customer:         domain.OrderCustomer{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		Shipping:         domain.ShippingAddress{Line1: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"},
		GatewayOrderId:   gatewayOrderId,
		GatewayPaymentId: gatewayPaymentId,
		Signature:        verifier.Sign(gatewayOrderId, gatewayPaymentId),
	}
}

func TestCreateOrder(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)

	ord, err := svc.Create(signedCommand(product.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, 200.0, ord.Subtotal)
	assert.Equal(t, 0.0, ord.ShippingCharge)
	assert.Equal(t, 0.0, ord.Tax)
	assert.Equal(t, ord.Subtotal+ord.ShippingCharge+ord.Tax, ord.TotalAmount)
	assert.Equal(t, domain.OrderStatusConfirmed, ord.Status)
	assert.Equal(t, domain.PaymentStatusCompleted, ord.Payment.Status)
	assert.True(t, strings.HasPrefix(ord.OrderCode, "ORD-"))
	assert.Equal(t, product.Name, ord.Product.Name)
	assert.Equal(t, 2, ord.Product.Quantity)

	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 3, after.Stock)
}

func TestCreateOrderProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(signedCommand(42, 1))
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)
	cmd := signedCommand(product.ID, 1)
	cmd.Quantity = 0
	_, err := svc.Create(cmd)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateOrderBadSignature(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)

	cmd := signedCommand(product.ID, 1)
	cmd.Signature = cmd.Signature[:len(cmd.Signature)-1] + "x"
	_, err := svc.Create(cmd)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	// rejected payments must not touch stock
	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 5, after.Stock)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)

	_, err := svc.Create(signedCommand(product.ID, 2))
	require.NoError(t, err)

	// stock is now 3; a request for 4 must fail and leave stock alone
	_, err = svc.Create(signedCommand(product.ID, 4))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 3, after.Stock)
}

func TestCreateOrderConditionalDecrement(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)

	// Simulate the lost-update race: another order drains stock after this
	// request passed its read-time check. The conditional decrement must
	// reject the stale request.
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", product.ID).
		UpdateColumn("stock", 1).Error)

	_, err := svc.Create(signedCommand(product.ID, 4))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 1, after.Stock)
	var orderCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 10)
	ord, err := svc.Create(signedCommand(product.ID, 1))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ord.ID, domain.OrderStatusShipped, "AWB123")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
	assert.Equal(t, "AWB123", updated.TrackingNumber)
	assert.Nil(t, updated.DeliveredAt)

	updated, err = svc.UpdateStatus(ord.ID, domain.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *updated.DeliveredAt, time.Minute)
	// tracking number survives the next transition
	assert.Equal(t, "AWB123", updated.TrackingNumber)
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 10)
	ord, err := svc.Create(signedCommand(product.ID, 1))
	require.NoError(t, err)

	// confirmed cannot jump straight to delivered, nor back to pending
	_, err = svc.UpdateStatus(ord.ID, domain.OrderStatusDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(ord.ID, domain.OrderStatusPending, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(ord.ID, "lost", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	current, err := svc.Get(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, current.Status)
}

func TestUpdateStatusCancelledRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)
	ord, err := svc.Create(signedCommand(product.ID, 2))
	require.NoError(t, err)

	// setting cancelled through the status path must compensate stock the
	// same way the cancel path does
	updated, err := svc.UpdateStatus(ord.ID, domain.OrderStatusCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)

	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 5, after.Stock)

	// and a shipped order cannot be cancelled through it either
	ord2, err := svc.Create(signedCommand(product.ID, 1))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ord2.ID, domain.OrderStatusShipped, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ord2.ID, domain.OrderStatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 4, after.Stock)
}

func TestCancelRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)
	ord, err := svc.Create(signedCommand(product.ID, 2))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 5, after.Stock)

	// a second cancel is rejected and must not restore stock again
	_, err = svc.Cancel(ord.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 5, after.Stock)
}

func TestCancelRejectedAfterShipping(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)
	ord, err := svc.Create(signedCommand(product.ID, 2))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ord.ID, domain.OrderStatusShipped, "")
	require.NoError(t, err)

	_, err = svc.Cancel(ord.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// stock and status untouched
	var after domain.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 3, after.Stock)
	current, err := svc.Get(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, current.Status)
}

func TestCancelMissingProductSkipsRestore(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)
	ord, err := svc.Create(signedCommand(product.ID, 2))
	require.NoError(t, err)

	require.NoError(t, db.Delete(&domain.Product{}, product.ID).Error)

	cancelled, err := svc.Cancel(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestTrackProjection(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 5)
	ord, err := svc.Create(signedCommand(product.ID, 1))
	require.NoError(t, err)

	info, err := svc.Track(ord.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, ord.OrderCode, info.OrderCode)
	assert.Equal(t, domain.OrderStatusConfirmed, info.Status)
	assert.Equal(t, ord.Product, info.Product)
	assert.Equal(t, ord.Shipping, info.ShippingAddress)

	_, err = svc.Track("ORD-00000000-XXXXXX")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListFiltersAndPagination(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 50, 100)

	var cancelledId int64
	for i := 0; i < 7; i++ {
		cmd := signedCommand(product.ID, 1)
		cmd.GatewayPaymentId = fmt.Sprintf("pay_seq_%d", i)
		cmd.Signature = payment.NewVerifier(testSecret).Sign(cmd.GatewayOrderId, cmd.GatewayPaymentId)
		ord, err := svc.Create(cmd)
		require.NoError(t, err)
		if i == 0 {
			cancelledId = ord.ID
		}
	}
	_, err := svc.Cancel(cancelledId)
	require.NoError(t, err)

	cancelled, total, err := svc.List(ListFilter{Status: domain.OrderStatusCancelled})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, cancelled, 1)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled[0].Status)

	page, total, err := svc.List(ListFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Len(t, page, 3)

	byName, total, err := svc.List(ListFilter{Search: "asha"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.NotEmpty(t, byName)

	none, total, err := svc.List(ListFilter{Search: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 100, 100)

	var firstId int64
	for i := 0; i < 3; i++ {
		cmd := signedCommand(product.ID, 2)
		cmd.GatewayPaymentId = fmt.Sprintf("pay_stats_%d", i)
		cmd.Signature = payment.NewVerifier(testSecret).Sign(cmd.GatewayOrderId, cmd.GatewayPaymentId)
		ord, err := svc.Create(cmd)
		require.NoError(t, err)
		if i == 0 {
			firstId = ord.ID
		}
	}
	_, err := svc.Cancel(firstId)
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 2, stats.ConfirmedOrders)
	assert.EqualValues(t, 1, stats.CancelledOrders)
	// all three payments completed, cancellation does not refund
	assert.Equal(t, 600.0, stats.TotalRevenue)
}
