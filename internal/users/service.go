package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/furniq/furniq-admin/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages accounts on behalf of administrators.
type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds a Service.
func NewService(repo RepositoryPort, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns all accounts, newest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create provisions an account. Role defaults to Viewer and status to
// Active when omitted.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID int64) (User, error) {
	role := input.Role
	if role == "" {
		role = RoleViewer
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, input.Role)
	}
	status := input.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatus(status) {
		return User{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, input.Status)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, User{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.ToLower(strings.TrimSpace(input.Email)),
		Role:   role,
		Status: status,
	}, string(hash))
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return User{}, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
		}
		return User{}, err
	}

	s.record(ctx, actorID, "user.create", created.ID, map[string]any{"role": created.Role})
	return created, nil
}

// Update applies a partial patch to an account.
func (s *Service) Update(ctx context.Context, id int64, patch Patch, actorID int64) (User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		current.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Role != nil {
		if !ValidRole(*patch.Role) {
			return User{}, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, *patch.Role)
		}
		current.Role = *patch.Role
	}
	if patch.Status != nil {
		if !ValidStatus(*patch.Status) {
			return User{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *patch.Status)
		}
		current.Status = *patch.Status
	}
	if current.Name == "" {
		return User{}, fmt.Errorf("%w: name must not be empty", shared.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actorID, "user.update", updated.ID, nil)
	return updated, nil
}

// Delete removes an account permanently. Admins cannot delete their own
// account while logged in with it.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}
	if id == actorID {
		return fmt.Errorf("%w: cannot delete the account you are signed in with", shared.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "user.delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actorID, Action: action, Entity: "user", EntityID: strconv.FormatInt(entityID, 10), Meta: meta}
	if err := s.audit.Record(ctx, log); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
