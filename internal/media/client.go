package media

import (
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/voltshop/storefront/config"
	"github.com/voltshop/storefront/pkg/common"
)

// Deleter releases images on the external media host by their storage id.
// Uploads happen host-side; this backend only ever deletes.
type Deleter interface {
	Delete(publicId string) error
}

// CloudinaryClient deletes images via the cloudinary destroy endpoint.
type CloudinaryClient struct {
	cfg     config.MediaConfig
	baseURL string
}

func NewCloudinaryClient(cfg config.MediaConfig) *CloudinaryClient {
	return &CloudinaryClient{
		cfg:     cfg,
		baseURL: "https://api.cloudinary.com/v1_1",
	}
}

// Delete removes one image by public id. The destroy API wants a SHA-signed
// parameter string.
func (c *CloudinaryClient) Delete(publicId string) error {
	if publicId == "" {
		return nil
	}
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s", publicId, timestamp)
	signature := common.Sha256HashWithSalt(toSign, c.cfg.APISecret)

	var result struct {
		Result string `json:"result"`
	}
	var code int
	err := gout.POST(fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cfg.CloudName)).
		SetTimeout(10*time.Second).
		SetForm(gout.H{
			"public_id": publicId,
			"timestamp": timestamp,
			"api_key":   c.cfg.APIKey,
			"signature": signature,
		}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "media delete failed")
	}
	if code >= 300 {
		return errors.Errorf("media delete returned status %d", code)
	}
	zap.L().Debug("media asset deleted",
		zap.String("public_id", publicId),
		zap.String("result", result.Result))
	return nil
}

// NopDeleter skips media deletion. Used when no media host is configured and
// in tests.
type NopDeleter struct{}

func (NopDeleter) Delete(string) error { return nil }
