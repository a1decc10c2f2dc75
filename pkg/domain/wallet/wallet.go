// Package wallet holds the wallet ledger entities and their invariants.
// A wallet tracks a single non-negative running balance in the smallest
// currency unit; every committed mutation must preserve balance >= 0.
package wallet

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/google/uuid"
)

// NumberLength is the total length of an externally facing wallet number.
const NumberLength = 13

// NumberPrefix is the reserved leading digit identifying this network.
const NumberPrefix = "4"

// Wallet represents a user's custodial wallet.
type Wallet struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	WalletNumber string    `json:"wallet_number"`
	Balance      int64     `json:"balance"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"updated"`
}

// New creates a zero-balance wallet for the given user with a freshly
// generated wallet number. The number is random; callers must handle a
// uniqueness-constraint violation by regenerating, not by assuming a
// single attempt succeeds.
func New(userID uuid.UUID) (*Wallet, error) {
	number, err := NewNumber()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Wallet{
		ID:           uuid.New(),
		UserID:       userID,
		WalletNumber: number,
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewNumber generates a wallet number: the network prefix followed by a
// crypto/rand digit body, fixed length.
func NewNumber() (string, error) {
	digits := make([]byte, 0, NumberLength)
	digits = append(digits, NumberPrefix...)
	for len(digits) < NumberLength {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits = append(digits, byte('0'+n.Int64()))
	}
	return string(digits), nil
}

// Credit increases the balance by amount.
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	w.Balance += amount
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit decreases the balance by amount, never below zero.
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if w.Balance < amount {
		return domain.ErrInsufficientBalance
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now().UTC()
	return nil
}
