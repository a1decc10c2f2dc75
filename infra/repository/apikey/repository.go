package apikey

import (
	"context"
	"strings"
	"time"

	infrarepo "github.com/amirasaad/walletd/infra/repository"
	"github.com/amirasaad/walletd/infra/repository/model"
	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/amirasaad/walletd/pkg/dto"
	repo "github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates an API key repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.APIKeyRepository {
	return &repository{db: db}
}

// Create implements repo.APIKeyRepository.
func (r *repository) Create(ctx context.Context, create dto.APIKeyCreate) error {
	k := model.APIKey{
		ID:          create.ID,
		UserID:      create.UserID,
		Name:        create.Name,
		KeyHash:     create.KeyHash,
		Permissions: strings.Join(create.Permissions, ","),
		ExpiresAt:   create.ExpiresAt,
	}
	return infrarepo.MapGormErrorToDomain(r.db.WithContext(ctx).Create(&k).Error)
}

// Get implements repo.APIKeyRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.APIKeyRead, error) {
	var k model.APIKey
	if err := r.db.WithContext(ctx).First(&k, "id = ?", id).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&k), nil
}

// GetByHash implements repo.APIKeyRepository.
func (r *repository) GetByHash(ctx context.Context, keyHash string) (*dto.APIKeyRead, error) {
	var k model.APIKey
	if err := r.db.WithContext(ctx).First(&k, "key_hash = ?", keyHash).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&k), nil
}

// CountActive implements repo.APIKeyRepository.
func (r *repository) CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.APIKey{}).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, now).
		Count(&count).Error
	if err != nil {
		return 0, infrarepo.MapGormErrorToDomain(err)
	}
	return count, nil
}

// Revoke implements repo.APIKeyRepository.
func (r *repository) Revoke(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.APIKey{}).
		Where("id = ?", id).
		Update("revoked", true)
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

func mapModelToDTO(k *model.APIKey) *dto.APIKeyRead {
	var perms []string
	if k.Permissions != "" {
		perms = strings.Split(k.Permissions, ",")
	}
	return &dto.APIKeyRead{
		ID:          k.ID,
		UserID:      k.UserID,
		Name:        k.Name,
		KeyHash:     k.KeyHash,
		Permissions: perms,
		ExpiresAt:   k.ExpiresAt,
		Revoked:     k.Revoked,
		CreatedAt:   k.CreatedAt,
	}
}
