package api

import (
	"github.com/voltshop/storefront/internal/app"
	"github.com/voltshop/storefront/internal/mailer"
	"github.com/voltshop/storefront/internal/media"
	"github.com/voltshop/storefront/internal/order"
	"github.com/voltshop/storefront/internal/payment"
	"github.com/voltshop/storefront/internal/shipping"
)

// ShippingQuoter narrows the shipping client so tests can stub it.
type ShippingQuoter interface {
	Serviceability(deliveryPincode string) (shipping.Quote, error)
}

// Collaborators constructed once at startup and shared by the handlers.
var (
	orderService   *order.Service
	paymentGateway payment.Gateway
	shippingClient ShippingQuoter
	mediaDeleter   media.Deleter
	mailSender     mailer.Sender
)

// Init wires the handler collaborators and registers every route on the web
// server. Must run after webserver.Init.
func Init(appCtx app.AppContext) {
	cfg := appCtx.Config()

	verifier := payment.NewVerifier(cfg.Payment.KeySecret)
	orderService = order.NewService(appCtx.DB(), verifier)
	paymentGateway = payment.NewRazorpayGateway(cfg.Payment)
	shippingClient = shipping.NewClient(cfg.Shipping)
	mailSender = mailer.NewSMTPSender(cfg.SMTP)
	if cfg.Media.CloudName != "" {
		mediaDeleter = media.NewCloudinaryClient(cfg.Media)
	} else {
		mediaDeleter = media.NopDeleter{}
	}

	registerProductRoutes()
	registerCategoryRoutes()
	registerBannerRoutes()
	registerOrderRoutes()
	registerUserRoutes()
	registerShippingRoutes()
	registerContactRoutes()
}
