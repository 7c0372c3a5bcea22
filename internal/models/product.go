package models

import (
	"math"

	"github.com/google/uuid"
)

// Product is a catalog entry. It either carries the flat pricing columns
// directly or owns one or more weight variants; IsVariantBased tells them
// apart. Soft deleted via IsActive so historical orders keep a valid
// reference.
type Product struct {
	BaseModel
	Name       string `json:"name"`
	NameTa     string `json:"name_ta"`
	Category   string `gorm:"index" json:"category"`
	CategoryTa string `json:"category_ta"`
	Image      string `json:"image"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`

	// Flat pricing, used only when the product has no variants.
	MRP             float64 `json:"mrp"`
	SellingPrice    float64 `json:"selling_price"`
	PurchasePrice   float64 `json:"purchase_price"`
	Stock           int     `gorm:"default:0" json:"stock"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountPercent int     `json:"discount_percent"`

	Variants []Variant `json:"variants,omitempty"`
}

// Variant is a purchasable unit of a product at a specific weight. Each
// variant has a stable UUID identity so reservations target a row, never an
// array position.
type Variant struct {
	BaseModel
	ProductID       uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Weight          string    `json:"weight"`
	MRP             float64   `json:"mrp"`
	SellingPrice    float64   `json:"selling_price"`
	PurchasePrice   float64   `json:"purchase_price"`
	Stock           int       `gorm:"default:0" json:"stock"`
	DiscountAmount  float64   `json:"discount_amount"`
	DiscountPercent int       `json:"discount_percent"`
}

// IsVariantBased reports whether stock and pricing live on the variants.
func (p *Product) IsVariantBased() bool {
	return len(p.Variants) > 0
}

// Discount computes the derived discount fields for a price pair. Both values
// are zero unless mrp and sellingPrice are both positive.
func Discount(mrp, sellingPrice float64) (amount float64, percent int) {
	if mrp <= 0 || sellingPrice <= 0 {
		return 0, 0
	}
	amount = mrp - sellingPrice
	percent = int(math.Round(amount / mrp * 100))
	return amount, percent
}

// ApplyDiscounts recomputes the derived discount fields on the product and
// every variant. Callers must invoke it at every construction or price
// mutation boundary; the fields are never independently settable.
func (p *Product) ApplyDiscounts() {
	p.DiscountAmount, p.DiscountPercent = Discount(p.MRP, p.SellingPrice)
	for i := range p.Variants {
		v := &p.Variants[i]
		v.DiscountAmount, v.DiscountPercent = Discount(v.MRP, v.SellingPrice)
	}
}

// hasFlatPricing reports whether the flat pricing record is complete.
func (p *Product) hasFlatPricing() bool {
	return p.MRP > 0 && p.SellingPrice > 0 && p.PurchasePrice > 0 && p.Stock >= 0
}

// Validate checks the invariants required before persisting a product.
func (p *Product) Validate() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if p.IsVariantBased() {
		for _, v := range p.Variants {
			if v.Weight == "" || v.MRP <= 0 || v.SellingPrice <= 0 || v.Stock < 0 {
				missing = append(missing, "variants")
				break
			}
		}
	} else if !p.hasFlatPricing() {
		missing = append(missing, "variants or flat pricing")
	}
	return missing
}
