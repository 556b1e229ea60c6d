package categories

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/furniq/furniq-admin/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates category operations.
type Service struct {
	repo   Repository
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds a Service.
func NewService(repo Repository, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns every category as a flat list; records carry their parent
// reference so clients can assemble the tree themselves.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Tree returns root categories with their subcategories attached.
func (s *Service) Tree(ctx context.Context) ([]Category, error) {
	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// Get returns a single category record (flat, no children).
func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: invalid category id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create adds a root category, or a subcategory when parentID is set.
// Subcategories of subcategories are rejected; the tree is two levels deep.
func (s *Service) Create(ctx context.Context, name string, parentID *int64, actorID int64) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if parentID != nil {
		parent, err := s.repo.Get(ctx, *parentID)
		if err != nil {
			return Category{}, err
		}
		if !parent.Root() {
			return Category{}, fmt.Errorf("%w: cannot nest below a subcategory", shared.ErrValidation)
		}
	}
	created, err := s.repo.Create(ctx, name, parentID)
	if err != nil {
		return Category{}, err
	}
	s.record(ctx, actorID, "category.create", created.ID, map[string]any{"name": created.Name})
	return created, nil
}

// Update renames a category and optionally moves it under a different root.
func (s *Service) Update(ctx context.Context, id int64, name string, parentID *int64, actorID int64) (Category, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		existing.Name = name
	}
	if parentID != nil {
		if *parentID == id {
			return Category{}, fmt.Errorf("%w: category cannot be its own parent", shared.ErrValidation)
		}
		parent, err := s.repo.Get(ctx, *parentID)
		if err != nil {
			return Category{}, err
		}
		if !parent.Root() {
			return Category{}, fmt.Errorf("%w: cannot nest below a subcategory", shared.ErrValidation)
		}
		existing.ParentID = parentID
	}
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return Category{}, err
	}
	s.record(ctx, actorID, "category.update", updated.ID, map[string]any{"name": updated.Name})
	return updated, nil
}

// Delete removes a category. Deleting a root cascades to its subcategories;
// products keep their stored category names and are not touched.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid category id", shared.ErrValidation)
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "category.delete", id, map[string]any{"removed": removed})
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actorID, Action: action, Entity: "category", EntityID: strconv.FormatInt(entityID, 10), Meta: meta}
	if err := s.audit.Record(ctx, log); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
