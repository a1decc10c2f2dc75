package wallet

import (
	"context"
	"errors"

	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/pkg/provider/payment"
	"github.com/google/uuid"
)

// DepositIntent is returned to the caller after a deposit has been opened
// with the gateway. Reference correlates the later webhook to the pending
// transaction.
type DepositIntent struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// StartDeposit opens a pending deposit for the user. It resolves the user,
// ensures a wallet, asks the gateway for a hosted checkout session, and only
// then records a PENDING transaction keyed by the gateway reference. No
// balance changes here; a gateway failure leaves no row behind and is
// surfaced to the caller untouched.
func (s *Service) StartDeposit(ctx context.Context, userID uuid.UUID, amount int64) (*DepositIntent, error) {
	log := s.logger.With("context", "StartDeposit", "userID", userID, "amount", amount)

	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	userRepo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	u, err := userRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.EnsureWallet(ctx, userID); err != nil {
		return nil, err
	}

	// The outbound call happens strictly before any ledger write and holds
	// no locks while awaited.
	session, err := s.gateway.Initialize(ctx, &payment.InitializeParams{
		Amount: amount,
		Email:  u.Email,
	})
	if err != nil {
		log.Error("StartDeposit failed: gateway initialize", "error", err, "retryable", payment.Retryable(err))
		return nil, err
	}

	txn, err := walletdomain.NewDeposit(userID, amount, session.Reference)
	if err != nil {
		return nil, err
	}
	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	// Every reference handed to a caller must have a PENDING row, or the
	// later webhook cannot be resolved.
	if err := txRepo.Create(ctx, dto.TransactionCreate{
		ID:        txn.ID,
		UserID:    txn.UserID,
		Kind:      string(txn.Kind),
		Status:    string(txn.Status),
		Amount:    txn.Amount,
		Reference: txn.Reference,
	}); err != nil {
		log.Error("StartDeposit failed: pending row insert", "error", err, "reference", session.Reference)
		return nil, err
	}

	log.Info("deposit opened", "reference", session.Reference)
	return &DepositIntent{
		Reference:        session.Reference,
		AuthorizationURL: session.AuthorizationURL,
	}, nil
}
