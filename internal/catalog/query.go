package catalog

import (
	"strings"

	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/domain"
)

// ProductQuery translates listing parameters into a gorm query. Zero values
// mean "no filter"; ActiveOnly defaults to true unless explicitly disabled
// by the caller.
type ProductQuery struct {
	CategoryId   int64
	MinPrice     *float64
	MaxPrice     *float64
	Search       string
	FeaturedOnly bool
	ActiveOnly   bool
	Sort         string
	Page         int
	Limit        int
}

// Sort keys accepted by ProductQuery.Sort. Anything else falls back to
// newest-first.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortReviews   = "reviews"
	SortNewest    = "newest"
)

// NewProductQuery returns a query with the listing defaults.
func NewProductQuery() ProductQuery {
	return ProductQuery{ActiveOnly: true, Sort: SortNewest, Page: 1, Limit: 10}
}

func (q ProductQuery) apply(db *gorm.DB) *gorm.DB {
	tx := db.Model(&domain.Product{})
	if q.CategoryId != 0 {
		tx = tx.Where("category_id = ?", q.CategoryId)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		// whitelist-free substring match; ILIKE only exists on postgres
		if db.Dialector.Name() == "postgres" {
			tx = tx.Where("name ILIKE ?", "%"+s+"%")
		} else {
			tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
	}
	if q.FeaturedOnly {
		tx = tx.Where("is_featured = ?", true)
	}
	if q.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	return tx
}

func (q ProductQuery) orderClause() string {
	switch q.Sort {
	case SortPriceLow:
		return "price ASC"
	case SortPriceHigh:
		return "price DESC"
	case SortRating:
		return "rating DESC"
	case SortReviews:
		return "reviews DESC"
	default:
		return "created_at DESC"
	}
}

// Run executes the query, returning the page of products with categories
// resolved plus the total matching count.
func (q ProductQuery) Run(db *gorm.DB) ([]domain.Product, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	base := q.apply(db)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []domain.Product
	err := base.Preload("Category").
		Order(q.orderClause()).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Pages computes the page count for a total at the query's limit.
func (q ProductQuery) Pages(total int64) int {
	if q.Limit < 1 {
		q.Limit = 10
	}
	return int((total + int64(q.Limit) - 1) / int64(q.Limit))
}
