// Package wallet provides the business logic of the custodial ledger:
// wallet provisioning, deposit initiation, internal transfers and
// reconciliation of gateway webhooks.
//
// Every balance mutation runs inside a unit-of-work transaction; the service
// never touches wallet state outside one.
package wallet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/pkg/provider/payment"
	"github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
)

// maxNumberAttempts bounds wallet-number regeneration on collision.
// The collision probability is low but non-zero; it is handled, not ignored.
const maxNumberAttempts = 5

// Service provides wallet ledger operations.
type Service struct {
	uow     repository.UnitOfWork
	gateway payment.Gateway
	logger  *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:     deps.Uow,
		gateway: deps.Gateway,
		logger:  deps.Logger,
	}
}

// EnsureWallet returns the user's wallet, creating a zero-balance one on
// first use. Creation is an upsert keyed on the unique owner constraint, so
// concurrent first-time calls for the same user resolve to a single wallet.
// A wallet-number collision regenerates and retries.
func (s *Service) EnsureWallet(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	log := s.logger.With("context", "EnsureWallet", "userID", userID)

	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}

	existing, err := repo.GetByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		w, err := walletdomain.New(userID)
		if err != nil {
			return nil, err
		}
		_, err = repo.CreateIfAbsent(ctx, dto.WalletCreate{
			ID:           w.ID,
			UserID:       w.UserID,
			WalletNumber: w.WalletNumber,
			Balance:      0,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			log.Warn("wallet number collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			log.Error("EnsureWallet failed: create error", "error", err)
			return nil, err
		}
		// Whether this call inserted or lost the race to a concurrent one,
		// the owner now has exactly one wallet.
		created, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		log.Info("wallet ensured", "walletID", created.ID, "walletNumber", created.WalletNumber)
		return created, nil
	}
	return nil, errors.New("could not allocate a unique wallet number")
}
