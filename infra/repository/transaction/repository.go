package transaction

import (
	"context"
	"time"

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

// New creates a transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.TransactionRepository {
	return &repository{db: db}
}

// Create implements repo.TransactionRepository.
func (r *repository) Create(ctx context.Context, create dto.TransactionCreate) error {
	tx := mapCreateDTOToModel(create)
	return infrarepo.MapGormErrorToDomain(r.db.WithContext(ctx).Create(&tx).Error)
}

// GetByReference implements repo.TransactionRepository.
func (r *repository) GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	var tx model.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "reference = ?", reference).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&tx), nil
}

// GetByReferenceForUpdate implements repo.TransactionRepository.
func (r *repository) GetByReferenceForUpdate(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tx, "reference = ?", reference).Error
	if err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	return mapModelToDTO(&tx), nil
}

// Settle implements repo.TransactionRepository. The status write is
// conditioned on PENDING so a terminal status is never revisited.
func (r *repository) Settle(ctx context.Context, id uuid.UUID, status string, settledAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, "PENDING").
		Updates(map[string]any{
			"status":     status,
			"settled_at": settledAt,
		})
	if res.Error != nil {
		return infrarepo.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransactionSettled
	}
	return nil
}

// ListByUser implements repo.TransactionRepository.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, status *string, limit int) ([]*dto.TransactionRead, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var txs []model.Transaction
	if err := q.Order("created_at DESC").Limit(limit).Find(&txs).Error; err != nil {
		return nil, infrarepo.MapGormErrorToDomain(err)
	}
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToDTO(&txs[i]))
	}
	return result, nil
}

func mapCreateDTOToModel(create dto.TransactionCreate) model.Transaction {
	tx := model.Transaction{
		ID:               create.ID,
		UserID:           create.UserID,
		Kind:             create.Kind,
		Status:           create.Status,
		Amount:           create.Amount,
		SenderWalletID:   create.SenderWalletID,
		ReceiverWalletID: create.ReceiverWalletID,
		SettledAt:        create.SettledAt,
	}
	if create.Reference != "" {
		ref := create.Reference
		tx.Reference = &ref
	}
	return tx
}

func mapModelToDTO(tx *model.Transaction) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:               tx.ID,
		UserID:           tx.UserID,
		Kind:             tx.Kind,
		Status:           tx.Status,
		Amount:           tx.Amount,
		SenderWalletID:   tx.SenderWalletID,
		ReceiverWalletID: tx.ReceiverWalletID,
		CreatedAt:        tx.CreatedAt,
		SettledAt:        tx.SettledAt,
	}
	if tx.Reference != nil {
		read.Reference = *tx.Reference
	}
	return read
}
