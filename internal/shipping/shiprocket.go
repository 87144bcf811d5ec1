package shipping

import (
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/voltshop/storefront/config"
)

const shiprocketAPI = "https://apiv2.shiprocket.in/v1/external"

// token lifetime is 10 days server-side; refresh well before that.
const tokenTTL = 24 * time.Hour

// Quote is the raw serviceability response passed through to the client.
type Quote map[string]interface{}

// Client queries the shiprocket serviceability API with token auth. Tokens
// are cached and refreshed on expiry.
type Client struct {
	cfg     config.ShippingConfig
	baseURL string

	mu        sync.Mutex
	token     string
	tokenTime time.Time
}

func NewClient(cfg config.ShippingConfig) *Client {
	return &Client{cfg: cfg, baseURL: shiprocketAPI}
}

func (c *Client) getToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Since(c.tokenTime) < tokenTTL {
		return c.token, nil
	}

	var result struct {
		Token string `json:"token"`
	}
	var code int
	err := gout.POST(c.baseURL+"/auth/login").
		SetTimeout(10*time.Second).
		SetJSON(gout.H{
			"email":    c.cfg.Email,
			"password": c.cfg.Password,
		}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "shiprocket login failed")
	}
	if code >= 300 || result.Token == "" {
		return "", errors.Errorf("shiprocket login returned status %d", code)
	}

	c.token = result.Token
	c.tokenTime = time.Now()
	return c.token, nil
}

// Serviceability checks courier availability and charges for a delivery
// pincode from the configured pickup warehouse. Parcel dimensions follow the
// storefront's standard box.
func (c *Client) Serviceability(deliveryPincode string) (Quote, error) {
	token, err := c.getToken()
	if err != nil {
		return nil, err
	}

	var quote Quote
	var code int
	err = gout.GET(c.baseURL+"/courier/serviceability").
		SetTimeout(10*time.Second).
		SetHeader(gout.H{"Authorization": "Bearer " + token}).
		SetQuery(gout.H{
			"pickup_postcode":   c.cfg.PickupPincode,
			"delivery_postcode": deliveryPincode,
			"weight":            "1",
			"length":            "15",
			"breadth":           "10",
			"height":            "10",
			"declared_value":    "0",
		}).
		BindJSON(&quote).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "shiprocket serviceability failed")
	}
	if code >= 300 {
		zap.L().Warn("shiprocket serviceability rejected",
			zap.Int("status", code),
			zap.String("pincode", deliveryPincode))
		return nil, errors.Errorf("shiprocket serviceability returned status %d", code)
	}
	return quote, nil
}
