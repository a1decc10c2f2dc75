// Package user provides business logic for user management.
package user

import (
	"context"
	"log/slog"

	"github.com/amirasaad/walletd/pkg/config"
	userdomain "github.com/amirasaad/walletd/pkg/domain/user"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
)

// Service provides user creation and lookup.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger}
}

// Create registers a new user with a hashed password.
func (s *Service) Create(ctx context.Context, username, email, password, names string) (*dto.UserRead, error) {
	log := s.logger.With("context", "CreateUser", "username", username)

	u, err := userdomain.New(username, email, password)
	if err != nil {
		log.Error("CreateUser failed: domain error", "error", err)
		return nil, err
	}
	u.Names = names

	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, dto.UserCreate{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
		Names:    u.Names,
	}); err != nil {
		log.Error("CreateUser failed: repo error", "error", err)
		return nil, err
	}

	log.Info("user created", "userID", u.ID)
	return repo.Get(ctx, u.ID)
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}
