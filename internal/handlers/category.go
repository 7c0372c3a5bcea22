package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/kirana/internal/services"
)

// CategoryHandler manages category endpoints.
type CategoryHandler struct {
	catalog *services.CatalogService
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(catalog *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// ListCategories returns active categories sorted by name.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListActiveCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

type categoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CreateCategory adds a category, rejecting duplicate names.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.catalog.AddCategory(c.Context(), req.Name, req.Image)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory soft deletes a category.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Category removed"})
}

// SyncCategories upserts the category names referenced by products.
func (h *CategoryHandler) SyncCategories(c *fiber.Ctx) error {
	count, err := h.catalog.SyncCategoriesFromProducts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Categories synced", "count": count})
}
