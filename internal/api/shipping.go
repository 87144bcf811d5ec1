package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/voltshop/storefront/internal/webserver"
)

func registerShippingRoutes() {
	webserver.PubPOST("/shipping/serviceability", getDeliveryCharges)
}

type serviceabilityPayload struct {
	Pincode string `json:"pincode"`
}

// getDeliveryCharges asks the shipping provider for courier availability and
// charges to a delivery pincode.
func getDeliveryCharges(c echo.Context) error {
	var payload serviceabilityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request", err.Error())
	}
	payload.Pincode = strings.TrimSpace(payload.Pincode)
	if payload.Pincode == "" {
		return fail(c, http.StatusBadRequest, "Pincode is required", "")
	}

	quote, err := shippingClient.Serviceability(payload.Pincode)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error calculating shipping", err.Error())
	}
	return ok(c, quote)
}
