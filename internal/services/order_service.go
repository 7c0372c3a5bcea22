package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/apperr"
	"github.com/example/kirana/internal/models"
)

// OrderStore persists order aggregates. CompareAndSetStatus is the
// restoration guard for the lifecycle: only the writer that wins the
// compare-and-set may touch the stock ledger.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// CompareAndSetStatus sets the status to next iff it still equals
	// previous, returning whether the write applied.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, previous, next string) (bool, error)
}

type gormOrderStore struct {
	db *gorm.DB
}

// NewOrderStore returns the database-backed order store.
func NewOrderStore(db *gorm.DB) OrderStore {
	return &gormOrderStore{db: db}
}

func (s *gormOrderStore) Create(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *gormOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *gormOrderStore) CompareAndSetStatus(ctx context.Context, id uuid.UUID, previous, next string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, previous).
		Update("status", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// OrderService implements the order lifecycle: placement with stock
// reservation and the status state machine with exactly-once restoration.
type OrderService struct {
	store  OrderStore
	ledger StockLedger
}

// NewOrderService constructs an OrderService.
func NewOrderService(store OrderStore, ledger StockLedger) *OrderService {
	return &OrderService{store: store, ledger: ledger}
}

// PlaceOrder reserves stock for every item and persists the order in Pending
// state. Reservation is sequential per item; on the first failure every
// already-reserved item is restored and no order row is written, so a
// rejected order leaves zero net stock change.
func (svc *OrderService) PlaceOrder(ctx context.Context, order *models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	if order.PaymentMethod == "" {
		order.PaymentMethod = "COD"
	}
	order.Status = models.StatusPending

	for i := range order.Items {
		item := &order.Items[i]
		if err := svc.ledger.Reserve(ctx, item.ProductID, item.VariantID, item.Quantity, itemLabel(item)); err != nil {
			svc.restoreItems(ctx, order.Items[:i])
			return err
		}
	}

	if err := svc.store.Create(ctx, order); err != nil {
		// The order never materialized; hand every reservation back.
		svc.restoreItems(ctx, order.Items)
		return err
	}

	return nil
}

// UpdateStatus applies one lifecycle transition. The compare-and-set on the
// previously read status resolves races between concurrent updates: the
// loser gets a ConflictError and performs no stock mutation, so restoration
// fires at most once per order.
func (svc *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next string) error {
	order, err := svc.store.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	previous := order.Status

	if !models.IsValidStatus(next) {
		return apperr.Validation("invalid status value %q", next)
	}
	if previous == models.StatusDelivered && next == models.StatusDelivered {
		return &apperr.AlreadyDeliveredError{}
	}
	if models.IsFailureStatus(previous) && !models.IsFailureStatus(next) {
		return apperr.Validation("cannot move order from %s back to %s", previous, next)
	}
	if previous == models.StatusDelivered && !models.IsFailureStatus(next) {
		return apperr.Validation("cannot move delivered order back to %s", next)
	}

	applied, err := svc.store.CompareAndSetStatus(ctx, orderID, previous, next)
	if err != nil {
		return err
	}
	if !applied {
		return apperr.Conflict("order status changed concurrently, retry")
	}

	// Stock was reserved at placement, so Delivered itself has no inventory
	// effect. Only the first move into a failure sink gives stock back.
	if models.IsFailureStatus(next) && !models.IsFailureStatus(previous) {
		svc.restoreItems(ctx, order.Items)
	}

	return nil
}

func (svc *OrderService) restoreItems(ctx context.Context, items []models.OrderItem) {
	for i := range items {
		item := &items[i]
		if err := svc.ledger.Restore(ctx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			log.Printf("stock restore failed for %s: %v", itemLabel(item), err)
		}
	}
}

func validateOrder(order *models.Order) error {
	if order.CustomerName == "" || order.Phone == "" || order.Address == "" {
		return apperr.Validation("missing order details")
	}
	if order.TotalAmount <= 0 {
		return apperr.Validation("missing order details")
	}
	if len(order.Items) == 0 {
		return apperr.Validation("order has no items")
	}
	for i := range order.Items {
		item := &order.Items[i]
		if item.ProductID == uuid.Nil {
			return apperr.Validation("item %q has no product reference", item.Name)
		}
		if item.Quantity <= 0 {
			return apperr.Validation("item %q has invalid quantity", item.Name)
		}
	}
	return nil
}

func itemLabel(item *models.OrderItem) string {
	if item.Weight != "" {
		return item.Name + " (" + item.Weight + ")"
	}
	return item.Name
}
