package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/apperr"
	"github.com/example/kirana/internal/models"
)

// StockLedger is the only code path allowed to mutate stock quantities.
// Reserve and Restore are each a single atomic statement at the storage
// layer; the order lifecycle decides when they fire.
type StockLedger interface {
	// Reserve decrements stock by quantity iff the current stock covers it,
	// matched together with the product/variant identity in one statement.
	// label names the item in the InsufficientStockError returned when the
	// guard fails or the target does not exist.
	Reserve(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int, label string) error

	// Restore increments stock by quantity unconditionally, reversing a
	// prior successful reservation. Exactly-once discipline is the caller's
	// responsibility; the ledger keeps no memory of which order drove a
	// mutation.
	Restore(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) error
}

type gormStockLedger struct {
	db *gorm.DB
}

// NewStockLedger returns the database-backed stock ledger.
func NewStockLedger(db *gorm.DB) StockLedger {
	return &gormStockLedger{db: db}
}

func (l *gormStockLedger) Reserve(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int, label string) error {
	res := l.target(ctx, productID, variantID).
		Where("stock >= ?", quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InsufficientStock(label)
	}
	return nil
}

func (l *gormStockLedger) Restore(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	res := l.target(ctx, productID, variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// The product row is gone; nothing to add stock back to. Orders are
		// permanent, so this only happens after manual data surgery.
		log.Printf("stock restore matched no rows: product=%s variant=%v qty=%d", productID, variantID, quantity)
	}
	return nil
}

// target scopes the update to the variant row when variantID is set, else to
// the product's flat stock column.
func (l *gormStockLedger) target(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) *gorm.DB {
	if variantID != nil {
		return l.db.WithContext(ctx).Model(&models.Variant{}).
			Where("id = ? AND product_id = ?", *variantID, productID)
	}
	return l.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID)
}
