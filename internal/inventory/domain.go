package inventory

import (
	"time"
)

// Reason enumerates why a stock level changed.
type Reason string

const (
	// ReasonInitialStock records the opening balance of a new product.
	ReasonInitialStock Reason = "Initial Stock"
	// ReasonStockAdded records a replenishment.
	ReasonStockAdded Reason = "Stock Added"
	// ReasonOrderShipped records stock leaving the warehouse.
	ReasonOrderShipped Reason = "Order Shipped"
	// ReasonReturn records a customer return coming back into stock.
	ReasonReturn Reason = "Return"
	// ReasonCorrection records a manual adjustment.
	ReasonCorrection Reason = "Correction"
)

// ValidReason reports whether the reason is one of the known values.
func ValidReason(r Reason) bool {
	switch r {
	case ReasonInitialStock, ReasonStockAdded, ReasonOrderShipped, ReasonReturn, ReasonCorrection:
		return true
	}
	return false
}

// Log records one signed stock movement for a product. The sum of Change
// across a product's logs should reconcile with its current stock; the
// nightly reconciliation job reports drift.
type Log struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	ProductSKU string    `json:"productSku,omitempty"`
	Change     int       `json:"change"`
	Reason     Reason    `json:"reason"`
	Notes      string    `json:"notes,omitempty"`
	UserID     int64     `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateInput describes a requested stock movement.
type CreateInput struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Change    int    `json:"change" validate:"required"`
	Reason    Reason `json:"reason" validate:"required"`
	Notes     string `json:"notes"`
	UserID    int64  `json:"userId"`
}

// ListFilters narrows log listings.
type ListFilters struct {
	ProductID int64
	Limit     int
}
