package user

import (
	"context"

	infrarepo "github.com/amirasaad/walletd/infra/repository"
	"github.com/amirasaad/walletd/infra/repository/model"
	"github.com/amirasaad/walletd/pkg/dto"
	repo "github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a user repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.UserRepository {
	return &repository{db: db}
}

// Create implements repo.UserRepository.
func (r *repository) Create(ctx context.Context, create dto.UserCreate) error {
	u := model.User{
		ID:       create.ID,
		Username: create.Username,
		Email:    create.Email,
		Password: create.Password,
		Names:    create.Names,
	}
	return infrarepo.MapGormErrorToDomain(r.db.WithContext(ctx).Create(&u).Error)
}

// Get implements repo.UserRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&u), nil
}

// GetByIdentity implements repo.UserRepository.
func (r *repository) GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identity, identity).
		First(&u).Error
	if err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&u), nil
}

func mapModelToDTO(u *model.User) *dto.UserRead {
	return &dto.UserRead{
		ID:             u.ID,
		Username:       u.Username,
		HashedPassword: u.Password,
		Email:          u.Email,
		Names:          u.Names,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
