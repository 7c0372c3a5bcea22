package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/apperr"
	"github.com/example/kirana/internal/models"
	"github.com/example/kirana/internal/services"
	"github.com/example/kirana/internal/utils"
)

const defaultLowStockThreshold = 5

// ProductHandler manages catalog endpoints.
type ProductHandler struct {
	db      *gorm.DB
	catalog *services.CatalogService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{db: db, catalog: catalog}
}

// variantRequest keeps stock as a pointer so an update payload that omits it
// is distinguishable from one setting it to zero.
type variantRequest struct {
	ID            string  `json:"id"`
	Weight        string  `json:"weight"`
	MRP           float64 `json:"mrp"`
	SellingPrice  float64 `json:"selling_price"`
	PurchasePrice float64 `json:"purchase_price"`
	Stock         *int    `json:"stock"`
}

type productRequest struct {
	Name          string           `json:"name"`
	NameTa        string           `json:"name_ta"`
	Category      string           `json:"category"`
	CategoryTa    string           `json:"category_ta"`
	Image         string           `json:"image"`
	MRP           float64          `json:"mrp"`
	SellingPrice  float64          `json:"selling_price"`
	PurchasePrice float64          `json:"purchase_price"`
	Stock         int              `json:"stock"`
	Variants      []variantRequest `json:"variants"`
}

func buildProduct(req productRequest) (models.Product, error) {
	product := models.Product{
		Name:          req.Name,
		NameTa:        req.NameTa,
		Category:      req.Category,
		CategoryTa:    req.CategoryTa,
		Image:         req.Image,
		MRP:           req.MRP,
		SellingPrice:  req.SellingPrice,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
	}

	variants, err := buildVariants(req.Variants)
	if err != nil {
		return product, err
	}
	product.Variants = variants
	return product, nil
}

func buildVariants(reqs []variantRequest) ([]models.Variant, error) {
	var variants []models.Variant
	for _, v := range reqs {
		variant := models.Variant{
			Weight:        v.Weight,
			MRP:           v.MRP,
			SellingPrice:  v.SellingPrice,
			PurchasePrice: v.PurchasePrice,
		}
		if v.Stock != nil {
			variant.Stock = *v.Stock
		}
		if v.ID != "" {
			id, err := uuid.Parse(v.ID)
			if err != nil {
				return nil, apperr.Validation("invalid variant id %q", v.ID)
			}
			variant.ID = id
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

func buildVariantPatches(reqs []variantRequest) ([]services.VariantPatch, error) {
	patches := make([]services.VariantPatch, 0, len(reqs))
	for _, v := range reqs {
		vp := services.VariantPatch{
			Weight:        v.Weight,
			MRP:           v.MRP,
			SellingPrice:  v.SellingPrice,
			PurchasePrice: v.PurchasePrice,
			Stock:         v.Stock,
		}
		if v.ID != "" {
			id, err := uuid.Parse(v.ID)
			if err != nil {
				return nil, apperr.Validation("invalid variant id %q", v.ID)
			}
			vp.ID = id
		}
		patches = append(patches, vp)
	}
	return patches, nil
}

// ListProducts returns active products for the admin console.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Variants").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CreateProduct adds a single product.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := buildProduct(req)
	if err != nil {
		return err
	}

	if err := h.catalog.AddProduct(c.Context(), &product); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// CreateBulkProducts adds a batch of products all-or-nothing.
func (h *ProductHandler) CreateBulkProducts(c *fiber.Ctx) error {
	var reqs []productRequest
	if err := c.BodyParser(&reqs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product array")
	}

	products := make([]models.Product, 0, len(reqs))
	for _, req := range reqs {
		product, err := buildProduct(req)
		if err != nil {
			return err
		}
		products = append(products, product)
	}

	if err := h.catalog.AddBulkProducts(c.Context(), products); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bulk products added successfully",
		"count":   len(products),
	})
}

type productPatchRequest struct {
	Name          *string           `json:"name"`
	NameTa        *string           `json:"name_ta"`
	Category      *string           `json:"category"`
	CategoryTa    *string           `json:"category_ta"`
	Image         *string           `json:"image"`
	IsActive      *bool             `json:"is_active"`
	MRP           *float64          `json:"mrp"`
	SellingPrice  *float64          `json:"selling_price"`
	PurchasePrice *float64          `json:"purchase_price"`
	Stock         *int              `json:"stock"`
	Variants      *[]variantRequest `json:"variants"`
}

// UpdateProduct applies a partial update and re-derives discounts.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req productPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	patch := services.ProductPatch{
		Name:          req.Name,
		NameTa:        req.NameTa,
		Category:      req.Category,
		CategoryTa:    req.CategoryTa,
		Image:         req.Image,
		IsActive:      req.IsActive,
		MRP:           req.MRP,
		SellingPrice:  req.SellingPrice,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
	}

	if req.Variants != nil {
		patches, err := buildVariantPatches(*req.Variants)
		if err != nil {
			return err
		}
		patch.Variants = &patches
	}

	product, err := h.catalog.UpdateProduct(c.Context(), id, patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product updated", "product": product})
}

// DeleteProduct soft deletes a product.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product removed"})
}

// LowStockCount reports how many products are at or below the threshold.
func (h *ProductHandler) LowStockCount(c *fiber.Ctx) error {
	threshold := defaultLowStockThreshold
	if v := c.Query("threshold"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid threshold")
		}
		threshold = parsed
	}

	count, err := h.catalog.LowStockCount(c.Context(), threshold)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"count": count})
}

// CustomerProducts returns the storefront catalog projection.
func (h *ProductHandler) CustomerProducts(c *fiber.Ctx) error {
	view, err := h.catalog.CustomerProducts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(view)
}
