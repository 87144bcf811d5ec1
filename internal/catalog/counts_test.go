package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/storefront/internal/domain"
)

func TestRecomputeProductCounts(t *testing.T) {
	db := newTestDB(t)
	chargers := seedCategory(t, db, "Chargers")
	cables := seedCategory(t, db, "Cables")
	seedCatalog(t, db, chargers, []seedSpec{
		{name: "Wall Charger", price: 499, active: true},
		{name: "Car Charger", price: 599, active: true},
		{name: "Retired Charger", price: 299, active: false},
	})

	require.NoError(t, RecomputeProductCounts(db))

	counts := func(id int64) int64 {
		var c domain.Category
		require.NoError(t, db.First(&c, id).Error)
		return c.ProductsCount
	}
	// inactive products are not counted
	assert.EqualValues(t, 2, counts(chargers.ID))
	assert.EqualValues(t, 0, counts(cables.ID))

	// idempotent
	require.NoError(t, RecomputeProductCounts(db))
	assert.EqualValues(t, 2, counts(chargers.ID))

	require.NoError(t, db.Model(&domain.Product{}).
		Where("name = ?", "Retired Charger").
		UpdateColumn("is_active", true).Error)
	require.NoError(t, RecomputeProductCounts(db))
	assert.EqualValues(t, 3, counts(chargers.ID))
}
