package models

import "github.com/google/uuid"

// Order status vocabulary. The set is closed; anything else is rejected at
// the lifecycle boundary.
const (
	StatusPending        = "Pending"
	StatusPreparing      = "Preparing"
	StatusPacked         = "Packed"
	StatusDelivered      = "Delivered"
	StatusDeliveryFailed = "Delivery Failed"
	StatusReturned       = "Returned"
	StatusCancelled      = "Cancelled"
)

var allStatuses = map[string]bool{
	StatusPending:        true,
	StatusPreparing:      true,
	StatusPacked:         true,
	StatusDelivered:      true,
	StatusDeliveryFailed: true,
	StatusReturned:       true,
	StatusCancelled:      true,
}

// IsValidStatus reports whether s belongs to the closed status vocabulary.
func IsValidStatus(s string) bool {
	return allStatuses[s]
}

// IsFailureStatus reports whether s is a failure sink (Returned, Delivery
// Failed, Cancelled). Entering a sink from a non-sink restores stock.
func IsFailureStatus(s string) bool {
	return s == StatusReturned || s == StatusDeliveryFailed || s == StatusCancelled
}

// Order is a permanent audit record; it is never deleted. Item name and
// price are snapshotted at placement so later catalog edits do not rewrite
// history.
type Order struct {
	BaseModel
	CustomerName  string      `json:"customer_name"`
	Phone         string      `gorm:"index" json:"phone"`
	Address       string      `json:"address"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod string      `gorm:"default:COD" json:"payment_method"`
	Status        string      `gorm:"default:Pending;index" json:"status"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem is owned by its order. VariantID is set when the product is
// variant-based and nil for flat products.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID  `gorm:"type:uuid" json:"product_id"`
	VariantID *uuid.UUID `gorm:"type:uuid" json:"variant_id,omitempty"`
	Name      string     `json:"name"`
	Weight    string     `json:"weight"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
}
