package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/models"
)

// ReportHandler serves read-side sales aggregations over delivered orders.
type ReportHandler struct {
	db *gorm.DB
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// SalesSummary returns delivered-order revenue for today, the trailing seven
// days and the current calendar month.
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	daily, err := h.deliveredTotalSince(dayStart)
	if err != nil {
		return err
	}
	weekly, err := h.deliveredTotalSince(weekStart)
	if err != nil {
		return err
	}
	monthly, err := h.deliveredTotalSince(monthStart)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"daily":   daily,
		"weekly":  weekly,
		"monthly": monthly,
	})
}

func (h *ReportHandler) deliveredTotalSince(from time.Time) (float64, error) {
	var total float64
	err := h.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.StatusDelivered, from).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

type dailySalesRow struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int     `json:"order_count"`
}

// DailySales returns per-day delivered totals and order counts between the
// from and to query dates (inclusive), ascending by day.
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
	}
	to = to.AddDate(0, 0, 1)

	var rows []dailySalesRow
	if err := h.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.StatusDelivered, from, to).
		Select("to_char(created_at, 'YYYY-MM-DD') as date, SUM(total_amount) as total_sales, COUNT(*) as order_count").
		Group("to_char(created_at, 'YYYY-MM-DD')").
		Order("date asc").
		Scan(&rows).Error; err != nil {
		return err
	}

	return c.JSON(rows)
}
