package wallet

import (
	"context"

	infrarepo "github.com/amirasaad/walletd/infra/repository"
	"github.com/amirasaad/walletd/infra/repository/model"
	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/amirasaad/walletd/pkg/dto"
	repo "github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// New creates a wallet repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.WalletRepository {
	return &repository{db: db}
}

// CreateIfAbsent implements repo.WalletRepository. The insert no-ops on the
// unique owner constraint so concurrent first-time calls for the same user
// cannot create two wallets; a wallet-number collision is reported as
// domain.ErrAlreadyExists for the caller to regenerate.
func (r *repository) CreateIfAbsent(ctx context.Context, create dto.WalletCreate) (bool, error) {
	w := model.Wallet{
		ID:           create.ID,
		UserID:       create.UserID,
		WalletNumber: create.WalletNumber,
		Balance:      create.Balance,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&w)
	if res.Error != nil {
		return false, infrarepo.MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetByUser implements repo.WalletRepository.
func (r *repository) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	var w model.Wallet
	if err := r.db.WithContext(ctx).First(&w, "user_id = ?", userID).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&w), nil
}

// GetByNumber implements repo.WalletRepository.
func (r *repository) GetByNumber(ctx context.Context, walletNumber string) (*dto.WalletRead, error) {
	var w model.Wallet
	if err := r.db.WithContext(ctx).First(&w, "wallet_number = ?", walletNumber).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&w), nil
}

// GetForUpdate implements repo.WalletRepository. Callers locking two wallets
// must call this in ascending id order to keep lock acquisition deterministic.
func (r *repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.WalletRead, error) {
	var w model.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w, "id = ?", id).Error
	if err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&w), nil
}

// Credit implements repo.WalletRepository with a single relative update.
func (r *repository) Credit(ctx context.Context, id uuid.UUID, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// Debit implements repo.WalletRepository. The balance guard is part of the
// statement so a concurrent debit can never push the balance negative.
func (r *repository) Debit(ctx context.Context, id uuid.UUID, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func mapModelToDTO(w *model.Wallet) *dto.WalletRead {
	return &dto.WalletRead{
		ID:           w.ID,
		UserID:       w.UserID,
		WalletNumber: w.WalletNumber,
		Balance:      w.Balance,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}
