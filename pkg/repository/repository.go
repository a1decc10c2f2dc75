// Package repository defines the persistence contracts consumed by the
// service layer. Implementations live under infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	Create(ctx context.Context, create dto.UserCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)
	// GetByIdentity resolves a user by username or email.
	GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error)
}

// WalletRepository defines the interface for wallet data access operations.
//
// Balance mutations go through Credit and Debit only; both are single-statement
// relative updates so concurrent mutators cannot lose each other's writes.
type WalletRepository interface {
	// CreateIfAbsent inserts the wallet unless one already exists for the
	// owner (conflict on the unique user constraint is a no-op). It reports
	// whether a row was inserted. A wallet-number uniqueness violation is
	// returned as domain.ErrAlreadyExists so callers can regenerate and retry.
	CreateIfAbsent(ctx context.Context, create dto.WalletCreate) (created bool, err error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error)
	GetByNumber(ctx context.Context, walletNumber string) (*dto.WalletRead, error)
	// GetForUpdate loads a wallet row with a row-level write lock. Callers
	// locking more than one wallet must lock in ascending id order.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.WalletRead, error)
	// Credit increments the balance by amount in a single statement.
	Credit(ctx context.Context, id uuid.UUID, amount int64) error
	// Debit decrements the balance by amount, guarded so the balance can
	// never go negative; returns domain.ErrInsufficientBalance otherwise.
	Debit(ctx context.Context, id uuid.UUID, amount int64) error
}

// TransactionRepository defines the interface for transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error
	GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error)
	// GetByReferenceForUpdate loads the row with a row-level write lock so
	// the idempotency check and the terminal write happen against the same
	// serialized view.
	GetByReferenceForUpdate(ctx context.Context, reference string) (*dto.TransactionRead, error)
	// Settle moves a PENDING transaction to a terminal status. The update is
	// conditioned on the row still being PENDING; settling an already
	// terminal row affects nothing and returns domain.ErrAlreadyExists.
	Settle(ctx context.Context, id uuid.UUID, status string, settledAt time.Time) error
	// ListByUser returns the newest transactions first, optionally filtered
	// by status, capped at limit.
	ListByUser(ctx context.Context, userID uuid.UUID, status *string, limit int) ([]*dto.TransactionRead, error)
}

// APIKeyRepository defines the interface for API key records.
type APIKeyRepository interface {
	Create(ctx context.Context, create dto.APIKeyCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.APIKeyRead, error)
	GetByHash(ctx context.Context, keyHash string) (*dto.APIKeyRead, error)
	CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}
