package domain

import "time"

// ProductSpecs is the fixed-shape spec record embedded into a product row.
type ProductSpecs struct {
	Warranty      string `gorm:"size:100;default:'1 Year'" json:"warranty"`
	Power         string `gorm:"size:100" json:"power,omitempty"`
	Compatibility string `gorm:"size:200" json:"compatibility,omitempty"`
	Dimensions    string `gorm:"size:100" json:"dimensions,omitempty"`
	Weight        string `gorm:"size:100" json:"weight,omitempty"`
}

// Product is a catalog item. Stock is mutated by admin edits and by the
// order workflow (decrement on placement, restore on cancellation).
type Product struct {
	ID               int64        `gorm:"primaryKey" json:"id,string"`
	Name             string       `gorm:"size:200;index" json:"name"`
	Slug             string       `gorm:"size:220;uniqueIndex" json:"slug"`
	CategoryId       int64        `gorm:"index" json:"category_id,string"`
	Category         *Category    `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	Price            float64      `json:"price"`
	DiscountPrice    *float64     `json:"discount_price,omitempty"`
	Images           ImageList    `gorm:"type:text" json:"images"`
	Rating           float64      `gorm:"default:0" json:"rating"`
	Reviews          int          `gorm:"default:0" json:"reviews"`
	Description      string       `gorm:"size:2000" json:"description"`
	ShortDescription string       `gorm:"size:300" json:"short_description,omitempty"`
	Features         StringList   `gorm:"type:text" json:"features"`
	Specs            ProductSpecs `gorm:"embedded;embeddedPrefix:spec_" json:"specs"`
	Stock            int          `gorm:"default:0" json:"stock"`
	Sku              *string      `gorm:"size:64;uniqueIndex" json:"sku,omitempty"`
	IsActive         bool         `gorm:"index" json:"is_active"`
	IsFeatured       bool         `gorm:"default:false" json:"is_featured"`
	Tags             StringList   `gorm:"type:text" json:"tags"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// FirstImageURL returns the url of the first image, or "".
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
