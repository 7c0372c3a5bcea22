package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/apperr"
	"github.com/example/kirana/internal/models"
	"github.com/example/kirana/internal/services"
	"github.com/example/kirana/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	orders   *services.OrderService
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders, telegram: telegram}
}

type orderItemRequest struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Name      string  `json:"name"`
	Weight    string  `json:"weight"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	Items         []orderItemRequest `json:"items"`
	TotalAmount   float64            `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
}

// CreateOrder places an order, reserving stock atomically per item.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order := models.Order{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
	}

	for _, it := range req.Items {
		item := models.OrderItem{
			Name:     it.Name,
			Weight:   it.Weight,
			Price:    it.Price,
			Quantity: it.Quantity,
		}

		if it.ProductID != "" {
			id, err := uuid.Parse(it.ProductID)
			if err != nil {
				return apperr.Validation("invalid product_id %q", it.ProductID)
			}
			item.ProductID = id
		}
		if it.VariantID != "" {
			id, err := uuid.Parse(it.VariantID)
			if err != nil {
				return apperr.Validation("invalid variant_id %q", it.VariantID)
			}
			item.VariantID = &id
		}

		order.Items = append(order.Items, item)
	}

	if err := h.orders.PlaceOrder(c.Context(), &order); err != nil {
		return err
	}

	if h.telegram != nil {
		snapshot := order
		go func() {
			if err := h.telegram.NotifyNewOrder(&snapshot); err != nil {
				log.Printf("[Order] Telegram notification failed: %v", err)
			}
		}()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order placed successfully",
		"order_id": order.ID,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order through the lifecycle state machine.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.orders.UpdateStatus(c.Context(), orderID, req.Status); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"status":  req.Status,
	})
}

// ListOrders returns all orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListOrdersByPhone returns a customer's order history, newest first.
func (h *OrderHandler) ListOrdersByPhone(c *fiber.Ctx) error {
	phone := c.Params("phone")

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("phone = ?", phone).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(orders)
}

// ListOrdersByDate returns orders placed on a given YYYY-MM-DD day.
func (h *OrderHandler) ListOrdersByDate(c *fiber.Ctx) error {
	day, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	from := day
	to := day.AddDate(0, 0, 1)

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(orders)
}
