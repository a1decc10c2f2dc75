package dto

import (
	"time"

	"github.com/google/uuid"
)

// APIKeyCreate is a DTO for persisting a newly minted API key.
type APIKeyCreate struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	KeyHash     string
	Permissions []string
	ExpiresAt   time.Time
}

// APIKeyRead is a read-optimized view of an API key record.
type APIKeyRead struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	KeyHash     string    `json:"-"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expires_at"`
	Revoked     bool      `json:"revoked"`
	CreatedAt   time.Time `json:"created_at"`
}
