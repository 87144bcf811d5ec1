package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/domain"
	"github.com/voltshop/storefront/internal/order"
	"github.com/voltshop/storefront/internal/payment"
	"github.com/voltshop/storefront/internal/webserver"
)

func registerOrderRoutes() {
	webserver.PubPOST("/orders/create-razorpay-order", createGatewayOrder)
	webserver.PubPOST("/orders/verify-payment", verifyPaymentAndCreateOrder)
	webserver.PubGET("/orders/track/:orderId", trackOrder)
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/stats", getOrderStats)
	webserver.ApiGET("/orders/export", exportOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPUT("/orders/:id/status", updateOrderStatus)
	webserver.ApiPUT("/orders/:id/cancel", cancelOrder)
}

type gatewayOrderPayload struct {
	ProductId int64 `json:"productId,string"`
	Quantity  int   `json:"quantity"`
}

// createGatewayOrder creates the payment-gateway order the client pays
// against. Stock is only checked here; reservation happens at
// verify-payment.
func createGatewayOrder(c echo.Context) error {
	var payload gatewayOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request", err.Error())
	}
	if payload.Quantity < 1 {
		payload.Quantity = 1
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", payload.ProductId).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found", "")
		}
		return fail(c, http.StatusInternalServerError, "Error creating payment order", err.Error())
	}
	if product.Stock < payload.Quantity {
		return fail(c, http.StatusBadRequest, "Insufficient stock", "")
	}

	amountPaise := int64(product.Price * float64(payload.Quantity) * 100)
	gatewayOrder, err := paymentGateway.CreateOrder(amountPaise, payment.Receipt(time.Now()), map[string]string{
		"productId":   fmt.Sprintf("%d", product.ID),
		"productName": product.Name,
		"quantity":    fmt.Sprintf("%d", payload.Quantity),
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error creating payment order", err.Error())
	}

	return ok(c, map[string]interface{}{
		"orderId":  gatewayOrder.ID,
		"amount":   gatewayOrder.Amount,
		"currency": gatewayOrder.Currency,
		"product": map[string]interface{}{
			"id":    product.ID,
			"name":  product.Name,
			"price": product.Price,
			"image": product.FirstImageURL(),
		},
	})
}

type verifyPaymentPayload struct {
	RazorpayOrderId   string                 `json:"razorpayOrderId"`
	RazorpayPaymentId string                 `json:"razorpayPaymentId"`
	RazorpaySignature string                 `json:"razorpaySignature"`
	ProductId         int64                  `json:"productId,string"`
	Quantity          int                    `json:"quantity"`
	Customer          domain.OrderCustomer   `json:"customer"`
	ShippingAddress   domain.ShippingAddress `json:"shippingAddress"`
}

func verifyPaymentAndCreateOrder(c echo.Context) error {
	var payload verifyPaymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request", err.Error())
	}
	if payload.Quantity < 1 {
		payload.Quantity = 1
	}

	created, err := orderService.Create(order.CreateOrderCommand{
		ProductId:        payload.ProductId,
		Quantity:         payload.Quantity,
		Customer:         payload.Customer,
		Shipping:         payload.ShippingAddress,
		GatewayOrderId:   payload.RazorpayOrderId,
		GatewayPaymentId: payload.RazorpayPaymentId,
		Signature:        payload.RazorpaySignature,
	})
	if err != nil {
		return orderError(c, err, "Error creating order")
	}

	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    created,
	})
}

func listOrders(c echo.Context) error {
	filter := order.ListFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("paymentStatus"),
		Search:        c.QueryParam("search"),
	}
	filter.Page, filter.Limit = parsePagination(c)
	if v := c.QueryParam("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartDate = &t
		} else if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := c.QueryParam("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndDate = &t
		} else if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.EndDate = &end
		}
	}

	orders, total, err := orderService.List(filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching orders", err.Error())
	}
	return paged(c, orders, total, filter.Page, filter.Limit)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid order ID", "")
	}
	ord, err := orderService.Get(id)
	if err != nil {
		return orderError(c, err, "Error fetching order")
	}

	// resolve the live product alongside the snapshot when it still exists
	var product domain.Product
	if err := GetDB(c).Preload("Category").
		Where("id = ?", ord.Product.ProductId).First(&product).Error; err == nil {
		return ok(c, map[string]interface{}{"order": ord, "productDetail": product})
	}
	return ok(c, map[string]interface{}{"order": ord})
}

func trackOrder(c echo.Context) error {
	info, err := orderService.Track(c.Param("orderId"))
	if err != nil {
		return orderError(c, err, "Error tracking order")
	}
	return ok(c, info)
}

type statusPayload struct {
	OrderStatus    string `json:"orderStatus"`
	TrackingNumber string `json:"trackingNumber"`
}

func updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid order ID", "")
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request", err.Error())
	}

	ord, err := orderService.UpdateStatus(id, payload.OrderStatus, payload.TrackingNumber)
	if err != nil {
		return orderError(c, err, "Error updating order status")
	}
	auditLog(c, "order_status", fmt.Sprintf("%s -> %s", ord.OrderCode, ord.Status))
	return okMessage(c, "Order status updated successfully", ord)
}

func cancelOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid order ID", "")
	}
	ord, err := orderService.Cancel(id)
	if err != nil {
		return orderError(c, err, "Error cancelling order")
	}
	auditLog(c, "order_cancel", ord.OrderCode)
	return okMessage(c, "Order cancelled successfully", ord)
}

func getOrderStats(c echo.Context) error {
	stats, err := orderService.GetStats()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error fetching order statistics", err.Error())
	}
	return ok(c, stats)
}

// exportOrders streams the filtered order list as an xlsx workbook.
func exportOrders(c echo.Context) error {
	filter := order.ListFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("paymentStatus"),
		Search:        c.QueryParam("search"),
	}
	orders, err := orderService.ListAll(filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error exporting orders", err.Error())
	}

	f := excelize.NewFile()
	const sheet = "Sheet1"
	headers := []string{"Order Code", "Status", "Customer", "Email", "Phone",
		"Product", "Quantity", "Subtotal", "Total", "Payment Status", "Created At"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s1", excelize.ToAlphaString(i)), h)
	}
	for row, ord := range orders {
		values := []interface{}{
			ord.OrderCode, ord.Status,
			ord.Customer.Name, ord.Customer.Email, ord.Customer.Phone,
			ord.Product.Name, ord.Product.Quantity,
			ord.Subtotal, ord.TotalAmount,
			ord.Payment.Status,
			ord.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row+2), v)
		}
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="orders-%s.xlsx"`, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

// orderError maps workflow failures to the response envelope.
func orderError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, order.ErrProductNotFound):
		return fail(c, http.StatusNotFound, "Product not found", "")
	case errors.Is(err, order.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "Order not found", "")
	case errors.Is(err, order.ErrInsufficientStock):
		return fail(c, http.StatusBadRequest, "Insufficient stock", "")
	case errors.Is(err, order.ErrInvalidPayment):
		return fail(c, http.StatusBadRequest, "Invalid payment signature", "")
	case errors.Is(err, order.ErrInvalidQuantity):
		return fail(c, http.StatusBadRequest, "Quantity must be at least 1", "")
	case errors.Is(err, order.ErrInvalidTransition):
		msg := "Invalid order status transition"
		if strings.Contains(c.Path(), "cancel") {
			msg = "Cannot cancel order that is shipped or delivered"
		}
		return fail(c, http.StatusBadRequest, msg, "")
	default:
		return fail(c, http.StatusInternalServerError, fallback, err.Error())
	}
}
