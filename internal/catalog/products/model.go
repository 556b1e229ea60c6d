package products

import "time"

// Status marks a product as live or soft-deleted.
type Status string

const (
	// StatusActive products show up in the storefront and active listings.
	StatusActive Status = "active"
	// StatusArchived products are hidden from active listings but retained
	// for audit and restore.
	StatusArchived Status = "archived"
)

// DefaultLowStock is applied when a product is created without a threshold.
const DefaultLowStock = 5

// Product represents a catalog item.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	SKU         string     `json:"sku"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Price       float64    `json:"price"`
	OfferPrice  *float64   `json:"offerPrice,omitempty"`
	Stock       int        `json:"stock"`
	LowStock    int        `json:"lowStock"`
	Status      Status     `json:"status"`
	Brand       string     `json:"brand,omitempty"`
	Material    string     `json:"material,omitempty"`
	Color       string     `json:"color,omitempty"`
	Style       string     `json:"style,omitempty"`
	Size        string     `json:"size,omitempty"`
	Warranty    string     `json:"warranty,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// Archived reports whether the product is soft-deleted.
func (p Product) Archived() bool {
	return p.Status == StatusArchived
}

// ListFilters narrows product listings.
type ListFilters struct {
	// Status is "active", "archived" or "all" (default).
	Status   string
	Search   string
	Category string
	Page     int
	PerPage  int
}
