package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kirana/internal/models"
)

func TestBuildCustomerViewVariantProduct(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()

	products := []models.Product{{
		BaseModel: models.BaseModel{ID: productID},
		Name:      "Toor Dal",
		NameTa:    "துவரம் பருப்பு",
		Category:  "Pulses",
		Variants: []models.Variant{{
			BaseModel:       models.BaseModel{ID: variantID},
			Weight:          "500g",
			MRP:             90,
			SellingPrice:    80,
			Stock:           12,
			DiscountAmount:  10,
			DiscountPercent: 11,
		}},
	}}

	view := BuildCustomerView(products)

	require.Len(t, view, 1)
	assert.Equal(t, productID, view[0].ID)
	assert.Equal(t, "துவரம் பருப்பு", view[0].NameTa)
	require.Len(t, view[0].Variants, 1)

	v := view[0].Variants[0]
	require.NotNil(t, v.VariantID)
	assert.Equal(t, variantID, *v.VariantID)
	assert.Equal(t, "500g", v.Weight)
	assert.Equal(t, 80.0, v.Price)
	assert.Equal(t, 12, v.Stock)
}

func TestBuildCustomerViewFlatProductBecomesSyntheticVariant(t *testing.T) {
	products := []models.Product{{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		Name:            "Salt",
		Category:        "Essentials",
		MRP:             30,
		SellingPrice:    25,
		Stock:           40,
		DiscountAmount:  5,
		DiscountPercent: 17,
	}}

	view := BuildCustomerView(products)

	require.Len(t, view, 1)
	require.Len(t, view[0].Variants, 1)

	v := view[0].Variants[0]
	assert.Nil(t, v.VariantID)
	assert.Equal(t, "1 unit", v.Weight)
	assert.Equal(t, 30.0, v.MRP)
	assert.Equal(t, 25.0, v.Price)
	assert.Equal(t, 40, v.Stock)
}

func TestBuildCustomerViewDropsOutOfStockFlatProducts(t *testing.T) {
	products := []models.Product{
		{
			BaseModel:    models.BaseModel{ID: uuid.New()},
			Name:         "Sold Out Salt",
			Category:     "Essentials",
			MRP:          30,
			SellingPrice: 25,
			Stock:        0,
		},
		{
			BaseModel: models.BaseModel{ID: uuid.New()},
			Name:      "Toor Dal",
			Category:  "Pulses",
			// Variant products stay listed; per-weight stock is shown by
			// the client.
			Variants: []models.Variant{{Weight: "500g", MRP: 90, SellingPrice: 80, Stock: 0}},
		},
	}

	view := BuildCustomerView(products)

	require.Len(t, view, 1)
	assert.Equal(t, "Toor Dal", view[0].Name)
}
