package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/furniq/furniq-admin/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.Active() {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// Register creates a new account. New registrations start as active viewers;
// an admin promotes them from the users screen.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	account, err := s.repo.Create(ctx, Account{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         "Viewer",
		Status:       "Active",
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
		}
		return nil, err
	}
	return account, nil
}

// AccountByID loads the account behind a resolved token.
func (s *Service) AccountByID(ctx context.Context, id int64) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}
