package dto

import (
	"time"

	"github.com/google/uuid"
)

// WalletCreate is a DTO for creating a new wallet.
type WalletCreate struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	WalletNumber string
	Balance      int64
}

// WalletRead is a read-optimized view of a wallet.
type WalletRead struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	WalletNumber string    `json:"wallet_number"`
	Balance      int64     `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
