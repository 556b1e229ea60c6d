package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/furniq/furniq-admin/internal/catalog/categories"
	"github.com/furniq/furniq-admin/internal/catalog/products"
	"github.com/furniq/furniq-admin/internal/inventory"
	"github.com/furniq/furniq-admin/internal/users"
)

// ProductStore caches the product catalog. Remove archives instead of
// deleting; archived products stay in the snapshot for the audit views.
type ProductStore struct {
	*Store[products.Product]
}

// NewProducts builds the product store.
func NewProducts(client *Client) *ProductStore {
	return &ProductStore{Store: New(client, "/api/products",
		func(p products.Product) int64 { return p.ID },
		WithValidator(validateProduct),
		WithArchive[products.Product](map[string]any{"status": products.StatusArchived}),
	)}
}

// Active returns the non-archived slice of the snapshot.
func (s *ProductStore) Active() []products.Product {
	return s.filtered(false)
}

// Archived returns the archived slice of the snapshot.
func (s *ProductStore) Archived() []products.Product {
	return s.filtered(true)
}

func (s *ProductStore) filtered(archived bool) []products.Product {
	var out []products.Product
	for _, p := range s.Snapshot() {
		if p.Archived() == archived {
			out = append(out, p)
		}
	}
	return out
}

func validateProduct(p products.Product) error {
	var missing []string
	for field, value := range map[string]string{
		"name":        p.Name,
		"sku":         p.SKU,
		"category":    p.Category,
		"subcategory": p.Subcategory,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return nil
}

// CategoryStore caches the flat category list. Use categories.BuildTree on
// the snapshot to get the two-level view.
type CategoryStore struct {
	*Store[categories.Category]
}

// NewCategories builds the category store.
func NewCategories(client *Client) *CategoryStore {
	return &CategoryStore{Store: New(client, "/api/categories",
		func(c categories.Category) int64 { return c.ID },
		WithValidator(func(c categories.Category) error {
			if strings.TrimSpace(c.Name) == "" {
				return fmt.Errorf("missing required fields: name")
			}
			return nil
		}),
	)}
}

// Tree assembles the cached categories into roots with subcategories.
func (s *CategoryStore) Tree() []categories.Category {
	return categories.BuildTree(s.Snapshot())
}

// InventoryStore caches the stock movement ledger.
type InventoryStore struct {
	*Store[inventory.Log]
}

// NewInventoryLogs builds the inventory log store.
func NewInventoryLogs(client *Client) *InventoryStore {
	return &InventoryStore{Store: New(client, "/api/inventories",
		func(l inventory.Log) int64 { return l.ID },
		WithValidator(func(l inventory.Log) error {
			if l.ProductID <= 0 {
				return fmt.Errorf("missing required fields: productId")
			}
			if l.Change == 0 {
				return fmt.Errorf("change must be non-zero")
			}
			if !inventory.ValidReason(l.Reason) {
				return fmt.Errorf("unknown reason %q", l.Reason)
			}
			return nil
		}),
	)}
}

// UserStore caches the account list.
type UserStore struct {
	*Store[users.User]
}

// CreateAccount provisions an account. The create body carries a password
// the cached User shape never holds, so it bypasses the generic Create.
func (s *UserStore) CreateAccount(ctx context.Context, input users.CreateInput) (users.User, bool) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		s.fail(OpCreate, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
		var zero users.User
		return zero, false
	}
	return s.createFrom(ctx, input)
}

// NewUsers builds the user store.
func NewUsers(client *Client) *UserStore {
	return &UserStore{Store: New(client, "/api/users",
		func(u users.User) int64 { return u.ID },
		WithValidator(func(u users.User) error {
			var missing []string
			if strings.TrimSpace(u.Name) == "" {
				missing = append(missing, "name")
			}
			if strings.TrimSpace(u.Email) == "" {
				missing = append(missing, "email")
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
			}
			return nil
		}),
	)}
}
