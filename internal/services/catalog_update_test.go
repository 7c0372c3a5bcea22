package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/apperr"
	"github.com/example/kirana/internal/models"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestProductUpdateColumnsSkipStockUnlessPatched(t *testing.T) {
	rename := ProductPatch{Name: strPtr("Toor Dal Premium")}
	assert.NotContains(t, productUpdateColumns(rename), "Stock",
		"a patch that does not touch stock must not write the stock column")

	restock := ProductPatch{Stock: intPtr(40)}
	assert.Contains(t, productUpdateColumns(restock), "Stock")
}

func TestVariantUpdateColumnsSkipStockUnlessPatched(t *testing.T) {
	relabel := VariantPatch{Weight: "500g"}
	assert.NotContains(t, variantUpdateColumns(relabel), "Stock")

	restock := VariantPatch{Weight: "500g", Stock: intPtr(12)}
	assert.Contains(t, variantUpdateColumns(restock), "Stock")
}

// A relabel arriving after an order has reserved stock must carry the
// current count forward, not the count the admin console read earlier.
func TestMergeVariantPatchesKeepsStoredStock(t *testing.T) {
	variantID := uuid.New()
	productID := uuid.New()

	// Read as 5 in the console, then two units reserved concurrently.
	stored := []models.Variant{{
		BaseModel: models.BaseModel{ID: variantID},
		ProductID: productID,
		Weight:    "1kg",
		Stock:     3,
	}}

	merged := mergeVariantPatches(productID, stored, []VariantPatch{{
		ID:           variantID,
		Weight:       "1 kg pack",
		MRP:          120,
		SellingPrice: 110,
	}})

	require.Len(t, merged, 1)
	assert.Equal(t, "1 kg pack", merged[0].Weight)
	assert.Equal(t, 3, merged[0].Stock)
}

func TestMergeVariantPatchesExplicitRestock(t *testing.T) {
	variantID := uuid.New()
	productID := uuid.New()

	stored := []models.Variant{{
		BaseModel: models.BaseModel{ID: variantID},
		ProductID: productID,
		Weight:    "1kg",
		Stock:     3,
	}}

	merged := mergeVariantPatches(productID, stored, []VariantPatch{{
		ID:     variantID,
		Weight: "1kg",
		Stock:  intPtr(50),
	}})

	require.Len(t, merged, 1)
	assert.Equal(t, 50, merged[0].Stock)
}

func TestMergeVariantPatchesAddsAndDrops(t *testing.T) {
	keptID := uuid.New()
	droppedID := uuid.New()
	productID := uuid.New()

	stored := []models.Variant{
		{BaseModel: models.BaseModel{ID: keptID}, ProductID: productID, Weight: "500g", Stock: 8},
		{BaseModel: models.BaseModel{ID: droppedID}, ProductID: productID, Weight: "250g", Stock: 2},
	}

	merged := mergeVariantPatches(productID, stored, []VariantPatch{
		{ID: keptID, Weight: "500g"},
		{Weight: "2kg", Stock: intPtr(10)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, keptID, merged[0].ID)
	assert.Equal(t, 8, merged[0].Stock)
	assert.Equal(t, uuid.Nil, merged[1].ID)
	assert.Equal(t, 10, merged[1].Stock)
	for _, v := range merged {
		assert.NotEqual(t, droppedID, v.ID)
		assert.Equal(t, productID, v.ProductID)
	}
}

func TestCategoryCreateErrorMapsUniqueViolation(t *testing.T) {
	var dup *apperr.DuplicateError
	assert.ErrorAs(t, categoryCreateError(gorm.ErrDuplicatedKey), &dup)

	wrapped := fmt.Errorf("create category: %w", gorm.ErrDuplicatedKey)
	assert.ErrorAs(t, categoryCreateError(wrapped), &dup)

	other := fmt.Errorf("connection reset")
	assert.Equal(t, other, categoryCreateError(other))
}
