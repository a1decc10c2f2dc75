// Package auth resolves caller identities. The ledger core never inspects
// credentials itself; it consumes the Principal this package produces from
// either a JWT or an API key.
package auth

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
	"github.com/amirasaad/walletd/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is a resolved caller identity with its permission set.
type Principal struct {
	UserID      uuid.UUID
	Permissions []apikeydomain.Permission
}

// Service authenticates users and resolves principals.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		cfg:    deps.Config.Auth.Jwt,
		logger: deps.Logger,
	}
}

// Login verifies the identity (username or email) and password and returns
// the user on success.
func (s *Service) Login(ctx context.Context, identity, password string) (*dto.UserRead, error) {
	log := s.logger.With("context", "Login", "identity", identity)

	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	u, err := repo.GetByIdentity(ctx, identity)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, u.HashedPassword) {
		log.Warn("Login failed: bad password")
		return nil, domain.ErrUnauthorized
	}
	log.Info("Login successful", "userID", u.ID)
	return u, nil
}

// GenerateToken issues an HS256 JWT for the user.
func (s *Service) GenerateToken(u *dto.UserRead) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"exp":   time.Now().Add(s.cfg.Expiry).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// PrincipalFromToken resolves a Principal from a verified JWT. Session
// callers hold the full permission set.
func (s *Service) PrincipalFromToken(token *jwt.Token) (*Principal, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &Principal{
		UserID: userID,
		Permissions: []apikeydomain.Permission{
			apikeydomain.PermissionDeposit,
			apikeydomain.PermissionTransfer,
			apikeydomain.PermissionRead,
		},
	}, nil
}

// PrincipalFromAPIKey resolves a Principal from a presented raw API key. The
// key is hashed and looked up; revoked or expired keys do not authenticate.
func (s *Service) PrincipalFromAPIKey(ctx context.Context, rawKey string) (*Principal, error) {
	repo, err := s.uow.APIKeyRepository()
	if err != nil {
		return nil, err
	}
	record, err := repo.GetByHash(ctx, apikeydomain.Hash(rawKey))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if record.Revoked || !record.ExpiresAt.After(time.Now()) {
		return nil, domain.ErrUnauthorized
	}

	perms := make([]apikeydomain.Permission, 0, len(record.Permissions))
	for _, p := range record.Permissions {
		parsed, err := apikeydomain.ParsePermission(p)
		if err != nil {
			s.logger.Warn("skipping unparseable stored permission", "keyID", record.ID, "permission", p)
			continue
		}
		perms = append(perms, parsed)
	}
	return &Principal{UserID: record.UserID, Permissions: perms}, nil
}
