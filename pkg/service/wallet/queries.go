package wallet

import (
	"context"
	"errors"

	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/google/uuid"
)

// listLimit caps transaction listings.
const listLimit = 50

// GetBalance returns the user's wallet balance, provisioning a wallet on
// first access.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	w, err := s.EnsureWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// GetDepositStatus returns the current state of a deposit by its gateway
// reference.
func (s *Service) GetDepositStatus(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	if reference == "" {
		return nil, domain.ErrValidation
	}
	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	txn, err := txRepo.GetByReference(ctx, reference)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns the user's most recent transactions, newest
// first, optionally filtered by status.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, statusFilter string) ([]*dto.TransactionRead, error) {
	var status *string
	if statusFilter != "" {
		parsed, err := walletdomain.ParseStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		v := string(parsed)
		status = &v
	}
	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txRepo.ListByUser(ctx, userID, status, listLimit)
}
