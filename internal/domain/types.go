package domain

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// StringList stores a list of strings as a JSON text column. Mongo-style
// array fields (features, tags) rendered relationally.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// ProductImage references an image stored on the external media host.
// PublicId is the host-side storage id used for deletion.
type ProductImage struct {
	URL      string `json:"url"`
	PublicId string `json:"publicId"`
}

// ImageList stores the ordered image references as a JSON text column.
type ImageList []ProductImage

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

func (l *ImageList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.Errorf("unsupported column type %T", src)
	}
}
