// Package apikey models programmatic credentials. A key is shown to the
// caller once at creation; only a SHA-256 digest of it is stored, so lookup
// happens by recomputing the digest over the presented key.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/google/uuid"
)

// MaxActiveKeys caps how many unrevoked, unexpired keys a user may hold.
const MaxActiveKeys = 5

const keyPrefix = "sk_live_"

// Permission scopes an API key to a subset of wallet operations.
type Permission string

const (
	PermissionDeposit  Permission = "deposit"
	PermissionTransfer Permission = "transfer"
	PermissionRead     Permission = "read"
)

// ParsePermission validates a caller-supplied permission string.
func ParsePermission(s string) (Permission, error) {
	switch Permission(strings.ToLower(s)) {
	case PermissionDeposit:
		return PermissionDeposit, nil
	case PermissionTransfer:
		return PermissionTransfer, nil
	case PermissionRead:
		return PermissionRead, nil
	}
	return "", fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, s)
}

// APIKey is the stored form of a credential; the raw key never persists.
type APIKey struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	KeyHash     string       `json:"-"`
	Permissions []Permission `json:"permissions"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Revoked     bool         `json:"revoked"`
	CreatedAt   time.Time    `json:"created"`
}

// Active reports whether the key can still authenticate at the given time.
func (k *APIKey) Active(now time.Time) bool {
	return !k.Revoked && k.ExpiresAt.After(now)
}

// HasPermission reports whether the key grants the permission.
func (k *APIKey) HasPermission(p Permission) bool {
	for _, kp := range k.Permissions {
		if kp == p {
			return true
		}
	}
	return false
}

// New mints an API key. It returns the stored record and the raw key string,
// which is surfaced to the caller exactly once.
func New(userID uuid.UUID, name string, perms []Permission, expiresAt time.Time) (*APIKey, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("%w: key name cannot be empty", domain.ErrValidation)
	}
	if len(perms) == 0 {
		return nil, "", fmt.Errorf("%w: key needs at least one permission", domain.ErrValidation)
	}
	raw, err := generateRawKey()
	if err != nil {
		return nil, "", err
	}
	return &APIKey{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		KeyHash:     Hash(raw),
		Permissions: perms,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now().UTC(),
	}, raw, nil
}

// Hash returns the hex SHA-256 digest of a raw key.
func Hash(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func generateRawKey() (string, error) {
	body := make([]byte, 16)
	if _, err := rand.Read(body); err != nil {
		return "", err
	}
	return keyPrefix + hex.EncodeToString(body), nil
}

// ParseExpiry resolves an expiry code like 1H, 1D, 1M or 1Y relative to now.
func ParseExpiry(code string, now time.Time) (time.Time, error) {
	if len(code) < 2 {
		return time.Time{}, fmt.Errorf("%w: invalid expiry %q", domain.ErrValidation, code)
	}
	value, err := strconv.Atoi(code[:len(code)-1])
	if err != nil || value <= 0 {
		return time.Time{}, fmt.Errorf("%w: invalid expiry %q", domain.ErrValidation, code)
	}
	switch strings.ToUpper(code[len(code)-1:]) {
	case "H":
		return now.Add(time.Duration(value) * time.Hour), nil
	case "D":
		return now.AddDate(0, 0, value), nil
	case "M":
		return now.AddDate(0, value, 0), nil
	case "Y":
		return now.AddDate(value, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid expiry unit in %q", domain.ErrValidation, code)
}
