package wallet

import (
	"bytes"
	"context"
	"errors"

	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
)

// Transfer moves amount from the sender's wallet to the wallet identified by
// receiverWalletNumber. The debit, credit and transaction record commit as
// one unit; a crash partway leaves the pre-transfer state entirely.
//
// Row locks are taken in ascending wallet-id order, not caller order, so two
// transfers moving money in opposite directions between the same pair of
// wallets cannot deadlock.
func (s *Service) Transfer(ctx context.Context, senderUserID uuid.UUID, receiverWalletNumber string, amount int64) (*dto.TransactionRead, error) {
	log := s.logger.With(
		"context", "Transfer",
		"senderUserID", senderUserID,
		"receiverWalletNumber", receiverWalletNumber,
		"amount", amount,
	)

	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var result *dto.TransactionRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		walletRepo, err := uow.WalletRepository()
		if err != nil {
			return err
		}

		sender, err := walletRepo.GetByUser(ctx, senderUserID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrSenderWalletNotFound
		}
		if err != nil {
			return err
		}

		receiver, err := walletRepo.GetByNumber(ctx, receiverWalletNumber)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRecipientWalletNotFound
		}
		if err != nil {
			return err
		}

		if sender.ID == receiver.ID {
			return domain.ErrSelfTransfer
		}

		first, second := sender.ID, receiver.ID
		if bytes.Compare(second[:], first[:]) < 0 {
			first, second = second, first
		}
		if _, err := walletRepo.GetForUpdate(ctx, first); err != nil {
			return err
		}
		if _, err := walletRepo.GetForUpdate(ctx, second); err != nil {
			return err
		}

		// Debit is guarded at the statement level too; the lock above makes
		// the explicit check read-your-writes consistent.
		if err := walletRepo.Debit(ctx, sender.ID, amount); err != nil {
			return err
		}
		if err := walletRepo.Credit(ctx, receiver.ID, amount); err != nil {
			return err
		}

		txn, err := walletdomain.NewTransfer(senderUserID, amount, sender.ID, receiver.ID)
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		create := dto.TransactionCreate{
			ID:               txn.ID,
			UserID:           txn.UserID,
			Kind:             string(txn.Kind),
			Status:           string(txn.Status),
			Amount:           txn.Amount,
			SenderWalletID:   txn.SenderWalletID,
			ReceiverWalletID: txn.ReceiverWalletID,
			SettledAt:        txn.SettledAt,
		}
		if err := txRepo.Create(ctx, create); err != nil {
			return err
		}

		result = &dto.TransactionRead{
			ID:               txn.ID,
			UserID:           txn.UserID,
			Kind:             string(txn.Kind),
			Status:           string(txn.Status),
			Amount:           txn.Amount,
			SenderWalletID:   txn.SenderWalletID,
			ReceiverWalletID: txn.ReceiverWalletID,
			CreatedAt:        txn.CreatedAt,
			SettledAt:        txn.SettledAt,
		}
		return nil
	})
	if err != nil {
		log.Error("Transfer failed", "error", err)
		return nil, err
	}
	log.Info("Transfer completed", "transactionID", result.ID)
	return result, nil
}
