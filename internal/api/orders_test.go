package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/order"
	"github.com/voltshop/storefront/internal/payment"
	"github.com/voltshop/storefront/internal/webserver"
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

// newTestContext builds an echo context with the request db injected, the
// same way the webserver middleware does.
func newTestContext(t *testing.T, db *gorm.DB, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.ContextKeyDB, db)
	return c, rec
}

func seedOrder(t *testing.T, db *gorm.DB) *domain.Order {
	t.Helper()
	product := &domain.Product{
		ID:       common.UUIDint64(),
		Name:     "Power Bank",
		Slug:     fmt.Sprintf("power-bank-%d", common.UUIDint64()),
		Price:    1499,
		Stock:    10,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)

	verifier := payment.NewVerifier(testSecret)
	ord, err := order.NewService(db, verifier).Create(order.CreateOrderCommand{
		ProductId:        product.ID,
		Quantity:         1,
		Customer:         domain.OrderCustomer{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		Shipping:         domain.ShippingAddress{Line1: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"},
		GatewayOrderId:   "order_test_1",
		GatewayPaymentId: "pay_test_1",
		Signature:        verifier.Sign("order_test_1", "pay_test_1"),
	})
	require.NoError(t, err)
	return ord
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestTrackOrderEndpoint(t *testing.T) {
	db := newTestDB(t)
	orderService = order.NewService(db, payment.NewVerifier(testSecret))
	ord := seedOrder(t, db)

	c, rec := newTestContext(t, db, http.MethodGet, "/api/orders/track/"+ord.OrderCode, "")
	c.SetPath("/api/orders/track/:orderId")
	c.SetParamNames("orderId")
	c.SetParamValues(ord.OrderCode)
	require.NoError(t, trackOrder(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ord.OrderCode, data["order_code"])
	assert.Equal(t, domain.OrderStatusConfirmed, data["status"])

	// tracking must never expose payment or customer contact details
	assert.NotContains(t, data, "payment")
	assert.NotContains(t, data, "customer")
	assert.NotContains(t, rec.Body.String(), "pay_test_1")
	assert.NotContains(t, rec.Body.String(), "asha@example.com")
}

func TestTrackOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	orderService = order.NewService(db, payment.NewVerifier(testSecret))

	c, rec := newTestContext(t, db, http.MethodGet, "/api/orders/track/ORD-UNKNOWN", "")
	c.SetPath("/api/orders/track/:orderId")
	c.SetParamNames("orderId")
	c.SetParamValues("ORD-UNKNOWN")
	require.NoError(t, trackOrder(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Order not found", envelope["message"])
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	orderService = order.NewService(db, payment.NewVerifier(testSecret))

	product := &domain.Product{
		ID:       common.UUIDint64(),
		Name:     "Wall Charger",
		Slug:     fmt.Sprintf("wall-charger-%d", common.UUIDint64()),
		Price:    499,
		Stock:    5,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)

	body := fmt.Sprintf(`{
		"razorpayOrderId": "order_x",
		"razorpayPaymentId": "pay_x",
		"razorpaySignature": "deadbeef",
		"productId": "%d",
		"quantity": 1,
		"customer": {"name": "Asha Rao", "email": "asha@example.com", "phone": "9876543210"},
		"shippingAddress": {"line1": "12 MG Road", "city": "Pune", "state": "MH", "pincode": "411001"}
	}`, product.ID)

	c, rec := newTestContext(t, db, http.MethodPost, "/api/orders/verify-payment", body)
	require.NoError(t, verifyPaymentAndCreateOrder(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Invalid payment signature", envelope["message"])
}

func TestCancelOrderEndpointMessage(t *testing.T) {
	db := newTestDB(t)
	orderService = order.NewService(db, payment.NewVerifier(testSecret))
	ord := seedOrder(t, db)

	_, err := orderService.UpdateStatus(ord.ID, domain.OrderStatusShipped, "AWB999")
	require.NoError(t, err)

	c, rec := newTestContext(t, db, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", ord.ID), "")
	c.SetPath("/api/orders/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", ord.ID))
	require.NoError(t, cancelOrder(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Cannot cancel order that is shipped or delivered", envelope["message"])
}

func TestListOrdersEndpointPagination(t *testing.T) {
	db := newTestDB(t)
	orderService = order.NewService(db, payment.NewVerifier(testSecret))
	seedOrder(t, db)

	c, rec := newTestContext(t, db, http.MethodGet, "/api/orders?page=1&limit=5", "")
	require.NoError(t, listOrders(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	pagination, ok := envelope["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, pagination["page"])
	assert.EqualValues(t, 5, pagination["limit"])
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 1, pagination["pages"])
}
