package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionCreate is a DTO for recording a new transaction.
type TransactionCreate struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Kind             string
	Status           string
	Amount           int64
	Reference        string
	SenderWalletID   *uuid.UUID
	ReceiverWalletID *uuid.UUID
	SettledAt        *time.Time
}

// TransactionRead is a read-optimized view of a transaction.
type TransactionRead struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Kind             string     `json:"type"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	Reference        string     `json:"reference,omitempty"`
	SenderWalletID   *uuid.UUID `json:"sender_wallet_id,omitempty"`
	ReceiverWalletID *uuid.UUID `json:"receiver_wallet_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	SettledAt        *time.Time `json:"settled_at,omitempty"`
}
