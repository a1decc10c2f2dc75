package wallet

import (
	"strings"
	"time"

	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/google/uuid"
)

// TransactionKind distinguishes deposits from internal transfers.
type TransactionKind string

const (
	// KindDeposit is an externally funded top-up reconciled via webhook.
	KindDeposit TransactionKind = "DEPOSIT"
	// KindTransfer is an internal wallet-to-wallet movement.
	KindTransfer TransactionKind = "TRANSFER"
)

// TransactionStatus is the lifecycle status of a transaction.
// PENDING -> SUCCESS and PENDING -> FAILED are the only legal transitions;
// a terminal status is never revisited.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// ParseStatus validates a caller-supplied status filter against the known
// set, case-insensitively.
func ParseStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(strings.ToUpper(s)) {
	case StatusPending:
		return StatusPending, nil
	case StatusSuccess:
		return StatusSuccess, nil
	case StatusFailed:
		return StatusFailed, nil
	}
	return "", domain.ErrInvalidStatusFilter
}

// Terminal reports whether no further transition is permitted from s.
func (s TransactionStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Transaction records a deposit or transfer attempt and its terminal outcome.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	Kind             TransactionKind   `json:"kind"`
	Status           TransactionStatus `json:"status"`
	Amount           int64             `json:"amount"`
	Reference        string            `json:"reference,omitempty"`
	SenderWalletID   *uuid.UUID        `json:"sender_wallet_id,omitempty"`
	ReceiverWalletID *uuid.UUID        `json:"receiver_wallet_id,omitempty"`
	CreatedAt        time.Time         `json:"created"`
	SettledAt        *time.Time        `json:"settled_at,omitempty"`
}

// NewDeposit opens a PENDING deposit transaction keyed by the gateway
// reference.
func NewDeposit(userID uuid.UUID, amount int64, reference string) (*Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	return &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      KindDeposit,
		Status:    StatusPending,
		Amount:    amount,
		Reference: reference,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewTransfer records a completed transfer between two distinct wallets.
// Transfers settle synchronously so the record is terminal at creation.
func NewTransfer(userID uuid.UUID, amount int64, sender, receiver uuid.UUID) (*Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if sender == receiver {
		return nil, domain.ErrSelfTransfer
	}
	now := time.Now().UTC()
	return &Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		Kind:             KindTransfer,
		Status:           StatusSuccess,
		Amount:           amount,
		SenderWalletID:   &sender,
		ReceiverWalletID: &receiver,
		CreatedAt:        now,
		SettledAt:        &now,
	}, nil
}
