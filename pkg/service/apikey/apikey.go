// Package apikey provides issue, rollover and revoke operations for
// programmatic credentials.
package apikey

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/domain"
	apikeydomain "github.com/amirasaad/walletd/pkg/domain/apikey"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
)

// Service manages API keys.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger}
}

// Issued is returned once at key creation; RawKey is never shown again.
type Issued struct {
	ID        uuid.UUID `json:"id"`
	RawKey    string    `json:"api_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create mints a new API key for the user, enforcing the active-key cap.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string, permissions []string, expiry string) (*Issued, error) {
	log := s.logger.With("context", "CreateAPIKey", "userID", userID, "name", name)

	now := time.Now().UTC()
	expiresAt, err := apikeydomain.ParseExpiry(expiry, now)
	if err != nil {
		return nil, err
	}
	perms := make([]apikeydomain.Permission, 0, len(permissions))
	for _, p := range permissions {
		parsed, err := apikeydomain.ParsePermission(p)
		if err != nil {
			return nil, err
		}
		perms = append(perms, parsed)
	}

	var issued *Issued
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.APIKeyRepository()
		if err != nil {
			return err
		}
		active, err := repo.CountActive(ctx, userID, now)
		if err != nil {
			return err
		}
		if active >= apikeydomain.MaxActiveKeys {
			return domain.ErrKeyCapExceeded
		}

		key, raw, err := apikeydomain.New(userID, name, perms, expiresAt)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, dto.APIKeyCreate{
			ID:          key.ID,
			UserID:      key.UserID,
			Name:        key.Name,
			KeyHash:     key.KeyHash,
			Permissions: permissions,
			ExpiresAt:   key.ExpiresAt,
		}); err != nil {
			return err
		}
		issued = &Issued{ID: key.ID, RawKey: raw, ExpiresAt: key.ExpiresAt}
		return nil
	})
	if err != nil {
		log.Error("CreateAPIKey failed", "error", err)
		return nil, err
	}
	log.Info("API key created", "keyID", issued.ID)
	return issued, nil
}

// Rollover replaces an expired key with a fresh one carrying the same
// permissions, revoking the old record in the same transaction. Keys that
// have not yet expired cannot be rolled over.
func (s *Service) Rollover(ctx context.Context, userID, keyID uuid.UUID, expiry string) (*Issued, error) {
	log := s.logger.With("context", "RolloverAPIKey", "userID", userID, "keyID", keyID)

	now := time.Now().UTC()
	expiresAt, err := apikeydomain.ParseExpiry(expiry, now)
	if err != nil {
		return nil, err
	}

	var issued *Issued
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.APIKeyRepository()
		if err != nil {
			return err
		}
		old, err := repo.Get(ctx, keyID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		if old.UserID != userID {
			return domain.ErrKeyNotFound
		}
		if old.ExpiresAt.After(now) {
			return domain.ErrKeyNotExpired
		}
		if old.Revoked {
			return domain.ErrKeyNotFound
		}

		perms := make([]apikeydomain.Permission, 0, len(old.Permissions))
		for _, p := range old.Permissions {
			parsed, err := apikeydomain.ParsePermission(p)
			if err != nil {
				log.Warn("skipping unparseable stored permission", "permission", p)
				continue
			}
			perms = append(perms, parsed)
		}
		key, raw, err := apikeydomain.New(userID, old.Name+" (Rollover)", perms, expiresAt)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, dto.APIKeyCreate{
			ID:          key.ID,
			UserID:      key.UserID,
			Name:        key.Name,
			KeyHash:     key.KeyHash,
			Permissions: old.Permissions,
			ExpiresAt:   key.ExpiresAt,
		}); err != nil {
			return err
		}
		if err := repo.Revoke(ctx, old.ID); err != nil {
			return err
		}
		issued = &Issued{ID: key.ID, RawKey: raw, ExpiresAt: key.ExpiresAt}
		return nil
	})
	if err != nil {
		log.Error("RolloverAPIKey failed", "error", err)
		return nil, err
	}
	log.Info("API key rolled over", "newKeyID", issued.ID)
	return issued, nil
}

// Revoke disables a key. Revoking an already revoked key is a no-op.
func (s *Service) Revoke(ctx context.Context, userID, keyID uuid.UUID) error {
	repo, err := s.uow.APIKeyRepository()
	if err != nil {
		return err
	}
	key, err := repo.Get(ctx, keyID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrKeyNotFound
	}
	if err != nil {
		return err
	}
	if key.UserID != userID {
		return domain.ErrKeyNotFound
	}
	if key.Revoked {
		return nil
	}
	return repo.Revoke(ctx, keyID)
}
