package products

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/furniq/furniq-admin/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates catalog operations.
type Service struct {
	repo   Repository
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds a Service.
func NewService(repo Repository, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateInput carries the fields accepted on product creation.
type CreateInput struct {
	Name        string   `json:"name" validate:"required"`
	SKU         string   `json:"sku" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Subcategory string   `json:"subcategory" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	OfferPrice  *float64 `json:"offerPrice" validate:"omitempty,gte=0"`
	LowStock    *int     `json:"lowStock" validate:"omitempty,gte=0"`
	Brand       string   `json:"brand"`
	Material    string   `json:"material"`
	Color       string   `json:"color"`
	Style       string   `json:"style"`
	Size        string   `json:"size"`
	Warranty    string   `json:"warranty"`
	ImageURL    string   `json:"imageUrl"`
	Description string   `json:"description"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name        *string  `json:"name"`
	SKU         *string  `json:"sku"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Price       *float64 `json:"price"`
	OfferPrice  *float64 `json:"offerPrice"`
	Stock       *int     `json:"stock"`
	LowStock    *int     `json:"lowStock"`
	Status      *Status  `json:"status"`
	Brand       *string  `json:"brand"`
	Material    *string  `json:"material"`
	Color       *string  `json:"color"`
	Style       *string  `json:"style"`
	Size        *string  `json:"size"`
	Warranty    *string  `json:"warranty"`
	ImageURL    *string  `json:"imageUrl"`
	Description *string  `json:"description"`
}

// List returns products matching the filters plus the unpaged total.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	switch filters.Status {
	case "", "all", string(StatusActive), string(StatusArchived):
	default:
		return nil, 0, fmt.Errorf("%w: unknown status filter %q", shared.ErrValidation, filters.Status)
	}
	return s.repo.List(ctx, filters)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create inserts a new product. A missing lowStock threshold defaults to
// DefaultLowStock; status always starts active.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID int64) (Product, error) {
	lowStock := DefaultLowStock
	if input.LowStock != nil {
		lowStock = *input.LowStock
	}
	product := Product{
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Price:       *input.Price,
		OfferPrice:  input.OfferPrice,
		Stock:       *input.Stock,
		LowStock:    lowStock,
		Status:      StatusActive,
		Brand:       input.Brand,
		Material:    input.Material,
		Color:       input.Color,
		Style:       input.Style,
		Size:        input.Size,
		Warranty:    input.Warranty,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, actorID, "product.create", created.ID, map[string]any{"sku": created.SKU})
	return created, nil
}

// Update merges the patch into the stored product and persists the result.
// Setting status to archived stamps archivedAt; setting it active clears it.
func (s *Service) Update(ctx context.Context, id int64, patch Patch, actorID int64) (Product, error) {
	updated, err := s.apply(ctx, id, patch)
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, actorID, "product.update", updated.ID, map[string]any{"sku": updated.SKU})
	return updated, nil
}

// Archive soft-deletes a product. The record stays in the catalog with
// every field intact.
func (s *Service) Archive(ctx context.Context, id int64, actorID int64) (Product, error) {
	status := StatusArchived
	updated, err := s.apply(ctx, id, Patch{Status: &status})
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, actorID, "product.archive", updated.ID, map[string]any{"sku": updated.SKU})
	return updated, nil
}

// Restore brings an archived product back into active listings.
func (s *Service) Restore(ctx context.Context, id int64, actorID int64) (Product, error) {
	status := StatusActive
	updated, err := s.apply(ctx, id, Patch{Status: &status})
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, actorID, "product.restore", updated.ID, map[string]any{"sku": updated.SKU})
	return updated, nil
}

func (s *Service) apply(ctx context.Context, id int64, patch Patch) (Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	merged := applyPatch(existing, patch)
	if merged.Stock < 0 {
		return Product{}, fmt.Errorf("%w: stock must be >= 0", shared.ErrValidation)
	}
	if merged.Price < 0 {
		return Product{}, fmt.Errorf("%w: price must be >= 0", shared.ErrValidation)
	}
	switch merged.Status {
	case StatusActive, StatusArchived:
	default:
		return Product{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, merged.Status)
	}

	return s.repo.Update(ctx, merged)
}

func applyPatch(p Product, patch Patch) Product {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Subcategory != nil {
		p.Subcategory = *patch.Subcategory
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OfferPrice != nil {
		p.OfferPrice = patch.OfferPrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.LowStock != nil {
		p.LowStock = *patch.LowStock
	}
	if patch.Status != nil && *patch.Status != p.Status {
		p.Status = *patch.Status
		if p.Status == StatusArchived {
			now := time.Now().UTC()
			p.ArchivedAt = &now
		} else {
			p.ArchivedAt = nil
		}
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Material != nil {
		p.Material = *patch.Material
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.Style != nil {
		p.Style = *patch.Style
	}
	if patch.Size != nil {
		p.Size = *patch.Size
	}
	if patch.Warranty != nil {
		p.Warranty = *patch.Warranty
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	return p
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actorID, Action: action, Entity: "product", EntityID: strconv.FormatInt(entityID, 10), Meta: meta}
	if err := s.audit.Record(ctx, log); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
