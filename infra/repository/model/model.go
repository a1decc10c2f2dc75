// Package model holds the GORM persistence models for the wallet ledger.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a user record in the database.
type User struct {
	gorm.Model
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Username string    `gorm:"uniqueIndex;not null;size:50"`
	Email    string    `gorm:"uniqueIndex;not null;size:255"`
	Password string    `gorm:"not null"`
	Names    string
}

// Wallet represents a wallet record in the database. One wallet per user;
// balance is stored in the smallest currency unit and checked non-negative
// at the schema level.
type Wallet struct {
	gorm.Model
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	WalletNumber string    `gorm:"uniqueIndex;not null;size:13"`
	Balance      int64     `gorm:"not null;default:0;check:balance >= 0"`
}

// Transaction represents a persisted deposit or transfer attempt.
// Reference is unique when present; it correlates gateway webhooks to
// pending deposits.
type Transaction struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind             string    `gorm:"type:varchar(16);not null"`
	Status           string    `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Amount           int64     `gorm:"not null;check:amount > 0"`
	Reference        *string   `gorm:"uniqueIndex;size:255"`
	SenderWalletID   *uuid.UUID `gorm:"type:uuid"`
	ReceiverWalletID *uuid.UUID `gorm:"type:uuid"`
	SettledAt        *time.Time
}

// APIKey represents a stored API credential; only the SHA-256 digest of the
// raw key is persisted.
type APIKey struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null;size:100"`
	KeyHash     string    `gorm:"uniqueIndex;not null;size:64"`
	Permissions string    `gorm:"not null"` // comma-separated scopes
	ExpiresAt   time.Time `gorm:"not null"`
	Revoked     bool      `gorm:"not null;default:false"`
}
