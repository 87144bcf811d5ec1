package domain

import "time"

// Banner is a promotional slot shown on the storefront. Purely
// presentational; no cross-entity invariants.
type Banner struct {
	ID          int64      `gorm:"primaryKey" json:"id,string"`
	Title       string     `gorm:"size:100" json:"title"`
	Subtitle    string     `gorm:"size:150" json:"subtitle,omitempty"`
	Description string     `gorm:"size:300" json:"description,omitempty"`
	ImageURL    string     `gorm:"size:1024" json:"image_url"`
	ImageId     string     `gorm:"size:200" json:"image_id"`
	ButtonText  string     `gorm:"size:30;default:'Shop Now'" json:"button_text"`
	ButtonLink  string     `gorm:"size:200;default:'/products'" json:"button_link"`
	Badge       string     `gorm:"size:30" json:"badge,omitempty"`
	SortOrder   int        `gorm:"default:0;index" json:"order"`
	IsActive    bool       `gorm:"index" json:"is_active"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Banner) TableName() string {
	return "banners"
}

// VisibleAt reports whether the banner is inside its active window at t.
// Missing bounds are treated as open.
func (b *Banner) VisibleAt(t time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartAt != nil && t.Before(*b.StartAt) {
		return false
	}
	if b.EndAt != nil && t.After(*b.EndAt) {
		return false
	}
	return true
}
