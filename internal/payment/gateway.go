package payment

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/voltshop/storefront/config"
)

const razorpayAPI = "https://api.razorpay.com/v1"

// GatewayOrder is the gateway-side order created before checkout. The client
// completes payment against this id and posts back the signed result.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway creates payment-gateway orders. Behind an interface so handlers
// can be tested without outbound calls.
type Gateway interface {
	CreateOrder(amount int64, receipt string, notes map[string]string) (*GatewayOrder, error)
}

// RazorpayGateway talks to the razorpay orders API with basic auth.
type RazorpayGateway struct {
	keyID    string
	secret   string
	currency string
	baseURL  string
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayGateway{
		keyID:    cfg.KeyID,
		secret:   cfg.KeySecret,
		currency: currency,
		baseURL:  razorpayAPI,
	}
}

// CreateOrder creates a gateway order. Amount is in the smallest currency
// unit (paise).
func (g *RazorpayGateway) CreateOrder(amount int64, receipt string, notes map[string]string) (*GatewayOrder, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(g.keyID + ":" + g.secret))

	var result GatewayOrder
	var code int
	err := gout.POST(g.baseURL+"/orders").
		SetTimeout(10*time.Second).
		SetHeader(gout.H{"Authorization": "Basic " + auth}).
		SetJSON(gout.H{
			"amount":   amount,
			"currency": g.currency,
			"receipt":  receipt,
			"notes":    notes,
		}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "razorpay order create failed")
	}
	if code >= 300 {
		zap.L().Warn("razorpay rejected order create",
			zap.Int("status", code),
			zap.String("receipt", receipt))
		return nil, errors.Errorf("razorpay order create returned status %d", code)
	}
	if result.ID == "" {
		return nil, errors.New("razorpay order create returned empty order id")
	}
	return &result, nil
}

// Receipt builds the gateway receipt string for a checkout attempt.
func Receipt(now time.Time) string {
	return fmt.Sprintf("order_%d", now.UnixMilli())
}
