package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/walletd/internal/fixtures/fakes"
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/domain"
	apikeydomain "github.com/amirasaad/walletd/pkg/domain/apikey"
	"github.com/amirasaad/walletd/pkg/dto"
	authsvc "github.com/amirasaad/walletd/pkg/service/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-jwt-secret"

func newTestService(uow *fakes.UoW) *authsvc.Service {
	return authsvc.NewService(config.Deps{
		Uow:    uow,
		Logger: slog.Default(),
		Config: &config.App{
			Auth: &config.Auth{
				Jwt: &config.Jwt{Secret: testSecret, Expiry: time.Hour},
			},
		},
	})
}

func seedCredentials(t *testing.T, uow *fakes.UoW, password string) *dto.UserRead {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &dto.UserRead{
		ID:             uuid.New(),
		Username:       "bob",
		Email:          "bob@example.com",
		HashedPassword: string(hash),
	}
	uow.SeedUser(u)
	return u
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow)
	u := seedCredentials(t, uow, "password123")

	got, err := svc.Login(context.Background(), u.Username, "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = svc.Login(context.Background(), u.Email, "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestLogin_BadPasswordAndUnknownIdentity(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow)
	u := seedCredentials(t, uow, "password123")

	_, err := svc.Login(context.Background(), u.Username, "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Unknown identity yields the same error as a bad password.
	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGenerateToken_RoundTripsToPrincipal(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow)
	u := seedCredentials(t, uow, "password123")

	signed, err := svc.GenerateToken(u)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	principal, err := svc.PrincipalFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, principal.UserID)

	// Session callers carry the full permission set.
	for _, p := range []apikeydomain.Permission{
		apikeydomain.PermissionDeposit,
		apikeydomain.PermissionTransfer,
		apikeydomain.PermissionRead,
	} {
		assert.Contains(t, principal.Permissions, p)
	}
}

func seedAPIKey(t *testing.T, uow *fakes.UoW, raw string, perms []string, expiresAt time.Time, revoked bool) uuid.UUID {
	t.Helper()
	repo, err := uow.APIKeyRepository()
	require.NoError(t, err)
	id := uuid.New()
	userID := uuid.New()
	require.NoError(t, repo.Create(context.Background(), dto.APIKeyCreate{
		ID:          id,
		UserID:      userID,
		Name:        "test",
		KeyHash:     apikeydomain.Hash(raw),
		Permissions: perms,
		ExpiresAt:   expiresAt,
	}))
	if revoked {
		require.NoError(t, repo.Revoke(context.Background(), id))
	}
	return userID
}

func TestPrincipalFromAPIKey_ScopedPermissions(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow)
	raw := "sk_live_scoped"
	userID := seedAPIKey(t, uow, raw, []string{"read"}, time.Now().Add(time.Hour), false)

	principal, err := svc.PrincipalFromAPIKey(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, []apikeydomain.Permission{apikeydomain.PermissionRead}, principal.Permissions)
}

func TestPrincipalFromAPIKey_DropsUnparseableStoredPermissions(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow)
	raw := "sk_live_corrupted_row"
	userID := seedAPIKey(t, uow, raw, []string{"read", "admin"}, time.Now().Add(time.Hour), false)

	// A corrupted stored value narrows the scope to the valid entries; it
	// never fails the lookup or invents a permission.
	principal, err := svc.PrincipalFromAPIKey(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, []apikeydomain.Permission{apikeydomain.PermissionRead}, principal.Permissions)
}

func TestPrincipalFromAPIKey_RejectsBadKeys(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow)

	_, err := svc.PrincipalFromAPIKey(context.Background(), "sk_live_unknown")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	revokedRaw := "sk_live_revoked"
	seedAPIKey(t, uow, revokedRaw, []string{"read"}, time.Now().Add(time.Hour), true)
	_, err = svc.PrincipalFromAPIKey(context.Background(), revokedRaw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expiredRaw := "sk_live_expired"
	seedAPIKey(t, uow, expiredRaw, []string{"read"}, time.Now().Add(-time.Minute), false)
	_, err = svc.PrincipalFromAPIKey(context.Background(), expiredRaw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
