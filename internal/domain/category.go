package domain

import "time"

// Category groups products. ProductsCount is a derived cache recomputed on
// demand and by the background job, never incremented in place.
type Category struct {
	ID            int64     `gorm:"primaryKey" json:"id,string"`
	Name          string    `gorm:"size:100;uniqueIndex" json:"name"`
	Description   string    `gorm:"size:500" json:"description,omitempty"`
	IsActive      bool      `gorm:"index" json:"is_active"`
	SortOrder     int       `gorm:"default:0" json:"order"`
	ProductsCount int64     `gorm:"default:0" json:"products_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "categories"
}
