package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/apperr"
	"github.com/example/kirana/internal/models"
)

// CatalogService owns product and category persistence: validation, discount
// derivation, category auto-vivification and soft deletes.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// AddProduct validates and persists a product, creating the referenced
// category on the fly when it does not exist yet.
func (s *CatalogService) AddProduct(ctx context.Context, product *models.Product) error {
	if missing := product.Validate(); len(missing) > 0 {
		return apperr.Validation("missing fields: %s", strings.Join(missing, ", "))
	}

	product.IsActive = true
	product.ApplyDiscounts()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, product.Category); err != nil {
			return err
		}
		return tx.Create(product).Error
	})
}

// AddBulkProducts inserts a batch all-or-nothing: every item is validated
// before anything is written and one transaction persists the whole batch,
// so a bad item never leaves earlier items committed.
func (s *CatalogService) AddBulkProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return apperr.Validation("empty product list")
	}

	var bad []string
	for i := range products {
		if missing := products[i].Validate(); len(missing) > 0 {
			bad = append(bad, fmt.Sprintf("item %d: %s", i, strings.Join(missing, ", ")))
		}
	}
	if len(bad) > 0 {
		return apperr.Validation("invalid products: %s", strings.Join(bad, "; "))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			products[i].IsActive = true
			products[i].ApplyDiscounts()
			if err := ensureCategory(tx, products[i].Category); err != nil {
				return err
			}
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ProductPatch carries a partial product update. Nil fields are untouched.
// A non-nil Variants slice replaces the variant set, merged by variant ID so
// surviving variants keep their identity.
type ProductPatch struct {
	Name          *string
	NameTa        *string
	Category      *string
	CategoryTa    *string
	Image         *string
	IsActive      *bool
	MRP           *float64
	SellingPrice  *float64
	PurchasePrice *float64
	Stock         *int
	Variants      *[]VariantPatch
}

// VariantPatch describes one variant inside a product update. A zero ID
// creates a new variant; a known ID updates that variant in place. A nil
// Stock leaves the stored stock column alone, so a price or label edit can
// never write back a count the ledger has moved on from.
type VariantPatch struct {
	ID            uuid.UUID
	Weight        string
	MRP           float64
	SellingPrice  float64
	PurchasePrice float64
	Stock         *int
}

// UpdateProduct merges the patch onto the stored product, re-derives the
// discount fields and persists the result.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Variants").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product")
	}
	if err != nil {
		return nil, err
	}

	applyPatch(&product, patch)
	if patch.Variants != nil {
		product.Variants = mergeVariantPatches(product.ID, product.Variants, *patch.Variants)
	}

	if missing := product.Validate(); len(missing) > 0 {
		return nil, apperr.Validation("missing fields: %s", strings.Join(missing, ", "))
	}
	product.ApplyDiscounts()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, product.Category); err != nil {
			return err
		}

		if patch.Variants != nil {
			if err := persistVariants(tx, &product, *patch.Variants); err != nil {
				return err
			}
		}

		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Select(productUpdateColumns(patch)).
			Updates(&product).Error
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// DeleteProduct soft deletes: the row stays for order history. Idempotent.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// LowStockCount counts active products that are at or below the threshold:
// variant-based products with at least one such variant, and flat products
// whose own stock qualifies.
func (s *CatalogService) LowStockCount(ctx context.Context, threshold int) (int64, error) {
	lowVariants := s.db.Model(&models.Variant{}).Select("product_id").Where("stock <= ?", threshold)
	anyVariants := s.db.Model(&models.Variant{}).Select("product_id")

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ?", true).
		Where("id IN (?) OR (id NOT IN (?) AND stock <= ?)", lowVariants, anyVariants, threshold).
		Count(&count).Error
	return count, err
}

// CustomerProducts returns the storefront projection of the active catalog.
func (s *CatalogService) CustomerProducts(ctx context.Context) ([]CustomerProduct, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Preload("Variants").
		Where("is_active = ?", true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return BuildCustomerView(products), nil
}

// CustomerVariant is the normalized per-weight price view shown to the
// storefront. VariantID is nil for the synthetic variant of a flat product.
type CustomerVariant struct {
	VariantID       *uuid.UUID `json:"variant_id,omitempty"`
	Weight          string     `json:"weight"`
	MRP             float64    `json:"mrp"`
	Price           float64    `json:"price"`
	Stock           int        `json:"stock"`
	DiscountAmount  float64    `json:"discount_amount"`
	DiscountPercent int        `json:"discount_percent"`
}

// CustomerProduct is the customer-facing product shape.
type CustomerProduct struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	NameTa     string            `json:"name_ta,omitempty"`
	Category   string            `json:"category"`
	CategoryTa string            `json:"category_ta,omitempty"`
	Image      string            `json:"image"`
	Variants   []CustomerVariant `json:"variants"`
}

// BuildCustomerView projects products to the storefront shape. A flat
// product becomes a single synthetic "1 unit" variant and is dropped when
// out of stock; variant-based products keep all variants, leaving per-weight
// stock display to the client.
func BuildCustomerView(products []models.Product) []CustomerProduct {
	view := make([]CustomerProduct, 0, len(products))
	for i := range products {
		p := &products[i]

		cp := CustomerProduct{
			ID:         p.ID,
			Name:       p.Name,
			NameTa:     p.NameTa,
			Category:   p.Category,
			CategoryTa: p.CategoryTa,
			Image:      p.Image,
		}

		if p.IsVariantBased() {
			for j := range p.Variants {
				v := p.Variants[j]
				id := v.ID
				cp.Variants = append(cp.Variants, CustomerVariant{
					VariantID:       &id,
					Weight:          v.Weight,
					MRP:             v.MRP,
					Price:           v.SellingPrice,
					Stock:           v.Stock,
					DiscountAmount:  v.DiscountAmount,
					DiscountPercent: v.DiscountPercent,
				})
			}
		} else {
			if p.Stock <= 0 {
				continue
			}
			cp.Variants = []CustomerVariant{{
				Weight:          "1 unit",
				MRP:             p.MRP,
				Price:           p.SellingPrice,
				Stock:           p.Stock,
				DiscountAmount:  p.DiscountAmount,
				DiscountPercent: p.DiscountPercent,
			}}
		}

		view = append(view, cp)
	}
	return view
}

// AddCategory creates an active category, rejecting duplicate names.
func (s *CatalogService) AddCategory(ctx context.Context, name, image string) (*models.Category, error) {
	if name == "" {
		return nil, apperr.Validation("category name required")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ?", name).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Duplicate("category")
	}

	category := models.Category{Name: name, Image: image, IsActive: true}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, categoryCreateError(err)
	}
	return &category, nil
}

// categoryCreateError folds the unique-index race into the duplicate error:
// two concurrent creators can both pass the existence check, and the loser's
// constraint violation must surface as a duplicate, not a server error.
func categoryCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Duplicate("category")
	}
	return err
}

// ListActiveCategories returns active categories sorted by name.
func (s *CatalogService) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&categories).Error
	return categories, err
}

// DeleteCategory soft deletes a category. Idempotent.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// SyncCategoriesFromProducts upserts every category name referenced by a
// product as an active category. Reconciliation utility, not on the hot
// path.
func (s *CatalogService) SyncCategoriesFromProducts(ctx context.Context) (int, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Where("category <> ''").
		Pluck("category", &names).Error; err != nil {
		return 0, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if err := ensureCategory(tx, name); err != nil {
				return err
			}
		}
		return nil
	})
	return len(names), err
}

// ensureCategory upserts the named category as active. The existence check
// and insert run inside the caller's transaction, which is also where the
// schema's unique index on name backstops concurrent creators.
func ensureCategory(tx *gorm.DB, name string) error {
	var category models.Category
	if err := tx.Where(models.Category{Name: name}).
		Attrs(models.Category{IsActive: true}).
		FirstOrCreate(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent creator; the row exists.
			return nil
		}
		return err
	}
	if !category.IsActive {
		return tx.Model(&category).Update("is_active", true).Error
	}
	return nil
}

func applyPatch(product *models.Product, patch ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.NameTa != nil {
		product.NameTa = *patch.NameTa
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.CategoryTa != nil {
		product.CategoryTa = *patch.CategoryTa
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	if patch.MRP != nil {
		product.MRP = *patch.MRP
	}
	if patch.SellingPrice != nil {
		product.SellingPrice = *patch.SellingPrice
	}
	if patch.PurchasePrice != nil {
		product.PurchasePrice = *patch.PurchasePrice
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
}

// productUpdateColumns lists the columns a product update writes. Stock is
// written only when the patch sets it explicitly: the product was read before
// the transaction, so writing the stale count back would erase any
// reservation the ledger made in between.
func productUpdateColumns(patch ProductPatch) []string {
	cols := []string{
		"Name", "NameTa", "Category", "CategoryTa", "Image", "IsActive",
		"MRP", "SellingPrice", "PurchasePrice", "DiscountAmount", "DiscountPercent",
	}
	if patch.Stock != nil {
		cols = append(cols, "Stock")
	}
	return cols
}

// variantUpdateColumns is the per-variant analog of productUpdateColumns.
func variantUpdateColumns(vp VariantPatch) []string {
	cols := []string{
		"Weight", "MRP", "SellingPrice", "PurchasePrice",
		"DiscountAmount", "DiscountPercent",
	}
	if vp.Stock != nil {
		cols = append(cols, "Stock")
	}
	return cols
}

// mergeVariantPatches builds the variant set an update describes. A patch
// with a known ID carries that variant forward, keeping the stored stock
// when the patch does not set one; a patch without an ID becomes a new
// variant; stored variants absent from the patch drop out. Identity is the
// variant ID, never the slice position, so concurrent reservations keep a
// stable target.
func mergeVariantPatches(productID uuid.UUID, existing []models.Variant, patches []VariantPatch) []models.Variant {
	byID := make(map[uuid.UUID]models.Variant, len(existing))
	for _, v := range existing {
		byID[v.ID] = v
	}

	merged := make([]models.Variant, 0, len(patches))
	for _, vp := range patches {
		v := models.Variant{
			BaseModel:     models.BaseModel{ID: vp.ID},
			ProductID:     productID,
			Weight:        vp.Weight,
			MRP:           vp.MRP,
			SellingPrice:  vp.SellingPrice,
			PurchasePrice: vp.PurchasePrice,
		}
		switch {
		case vp.Stock != nil:
			v.Stock = *vp.Stock
		default:
			if prev, ok := byID[vp.ID]; ok {
				v.Stock = prev.Stock
			}
		}
		merged = append(merged, v)
	}
	return merged
}

// persistVariants reconciles the stored variant rows with product.Variants,
// which mergeVariantPatches has already aligned index-for-index with the
// patch slice: variants carrying a known ID are updated in place, new ones
// inserted, and rows missing from the patch removed.
func persistVariants(tx *gorm.DB, product *models.Product, patches []VariantPatch) error {
	var existing []models.Variant
	if err := tx.Where("product_id = ?", product.ID).Find(&existing).Error; err != nil {
		return err
	}

	keep := make(map[uuid.UUID]bool, len(product.Variants))
	for i := range product.Variants {
		v := &product.Variants[i]
		v.ProductID = product.ID
		if v.ID != uuid.Nil {
			keep[v.ID] = true
			if err := tx.Model(&models.Variant{}).Where("id = ? AND product_id = ?", v.ID, product.ID).
				Select(variantUpdateColumns(patches[i])).
				Updates(v).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(v).Error; err != nil {
				return err
			}
			keep[v.ID] = true
		}
	}

	for i := range existing {
		if !keep[existing[i].ID] {
			if err := tx.Delete(&models.Variant{}, "id = ?", existing[i].ID).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
