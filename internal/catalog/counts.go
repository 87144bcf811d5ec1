package catalog

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltshop/storefront/internal/domain"
)

// TopicCatalogChanged is published on the event bus after any product or
// category mutation. Subscribers recompute derived data.
const TopicCatalogChanged = "catalog:changed"

// RecomputeProductCounts rewrites every category's productsCount from the
// live product table. Idempotent; safe to run on demand, on catalog change
// events and from the daily job.
func RecomputeProductCounts(db *gorm.DB) error {
	var categories []domain.Category
	if err := db.Find(&categories).Error; err != nil {
		return err
	}
	for _, cat := range categories {
		var count int64
		if err := db.Model(&domain.Product{}).
			Where("category_id = ? AND is_active = ?", cat.ID, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count == cat.ProductsCount {
			continue
		}
		if err := db.Model(&domain.Category{}).Where("id = ?", cat.ID).
			UpdateColumn("products_count", count).Error; err != nil {
			return err
		}
		zap.L().Debug("category products count updated",
			zap.Int64("category_id", cat.ID),
			zap.Int64("count", count))
	}
	return nil
}
