package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/furniq/furniq-admin/internal/shared"
)

// ErrInsufficientStock is returned when a movement would drive stock
// below zero.
var ErrInsufficientStock = fmt.Errorf("%w: movement would drive stock below zero", shared.ErrValidation)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates inventory movements.
type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds a Service.
func NewService(repo RepositoryPort, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateLog records a stock movement and applies the delta to the product's
// stock in the same transaction.
func (s *Service) CreateLog(ctx context.Context, input CreateInput, actorID int64) (Log, error) {
	if input.ProductID <= 0 {
		return Log{}, fmt.Errorf("%w: productId is required", shared.ErrValidation)
	}
	if input.Change == 0 {
		return Log{}, fmt.Errorf("%w: change must be non-zero", shared.ErrValidation)
	}
	if !ValidReason(input.Reason) {
		return Log{}, fmt.Errorf("%w: unknown reason %q", shared.ErrValidation, input.Reason)
	}

	userID := input.UserID
	if userID == 0 {
		userID = actorID
	}

	var created Log
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		stock, sku, err := tx.ProductForUpdate(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("%w: product %d", shared.ErrNotFound, input.ProductID)
			}
			return err
		}
		newStock := stock + input.Change
		if newStock < 0 {
			return ErrInsufficientStock
		}
		if err := tx.SetProductStock(ctx, input.ProductID, newStock); err != nil {
			return err
		}
		created, err = tx.InsertLog(ctx, Log{
			ProductID:  input.ProductID,
			ProductSKU: sku,
			Change:     input.Change,
			Reason:     input.Reason,
			Notes:      input.Notes,
			UserID:     userID,
		})
		return err
	})
	if err != nil {
		return Log{}, err
	}

	s.record(ctx, actorID, "inventory.log", created.ID, map[string]any{
		"productId": created.ProductID,
		"change":    created.Change,
		"reason":    string(created.Reason),
	})
	return created, nil
}

// List returns logs, newest first.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Log, error) {
	return s.repo.List(ctx, filters)
}

// Get returns one log entry.
func (s *Service) Get(ctx context.Context, id int64) (Log, error) {
	if id <= 0 {
		return Log{}, fmt.Errorf("%w: invalid log id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Annotate rewrites the reason and notes of a log entry. The delta stays
// fixed; corrections go through a new log entry instead.
func (s *Service) Annotate(ctx context.Context, id int64, reason Reason, notes string, actorID int64) (Log, error) {
	if id <= 0 {
		return Log{}, fmt.Errorf("%w: invalid log id", shared.ErrValidation)
	}
	if !ValidReason(reason) {
		return Log{}, fmt.Errorf("%w: unknown reason %q", shared.ErrValidation, reason)
	}
	updated, err := s.repo.UpdateLog(ctx, id, reason, notes)
	if err != nil {
		return Log{}, err
	}
	s.record(ctx, actorID, "inventory.annotate", updated.ID, map[string]any{"reason": string(reason)})
	return updated, nil
}

// Delete removes a log entry and reverses its stock effect, keeping the
// ledger sum aligned with the product's stock. Reversal that would drive
// stock negative is rejected.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid log id", shared.ErrValidation)
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		log, err := tx.GetLog(ctx, id)
		if err != nil {
			return err
		}
		stock, _, err := tx.ProductForUpdate(ctx, log.ProductID)
		if err != nil {
			// The product may have been removed out from under the log;
			// drop the orphaned entry on its own.
			if errors.Is(err, shared.ErrNotFound) {
				return tx.DeleteLog(ctx, id)
			}
			return err
		}
		newStock := stock - log.Change
		if newStock < 0 {
			return ErrInsufficientStock
		}
		if err := tx.SetProductStock(ctx, log.ProductID, newStock); err != nil {
			return err
		}
		return tx.DeleteLog(ctx, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "inventory.delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actorID, Action: action, Entity: "inventory_log", EntityID: strconv.FormatInt(entityID, 10), Meta: meta}
	if err := s.audit.Record(ctx, log); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
