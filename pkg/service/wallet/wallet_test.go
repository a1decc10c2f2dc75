package wallet_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/walletd/infra/provider/mockpayment"
	"github.com/amirasaad/walletd/internal/fixtures/fakes"
	"github.com/amirasaad/walletd/pkg/config"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	walletsvc "github.com/amirasaad/walletd/pkg/service/wallet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(uow *fakes.UoW, gateway *mockpayment.MockGateway) *walletsvc.Service {
	return walletsvc.NewService(config.Deps{
		Uow:     uow,
		Gateway: gateway,
		Logger:  slog.Default(),
	})
}

func seedUser(uow *fakes.UoW) *dto.UserRead {
	u := &dto.UserRead{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
	}
	uow.SeedUser(u)
	return u
}

func TestEnsureWallet_CreatesOnFirstUse(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))
	userID := uuid.New()

	w, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, w.UserID)
	assert.EqualValues(t, 0, w.Balance)
	assert.Len(t, w.WalletNumber, walletdomain.NumberLength)
	assert.Equal(t, walletdomain.NumberPrefix, w.WalletNumber[:1])
}

func TestEnsureWallet_ReturnsExistingWallet(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))
	userID := uuid.New()

	first, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.WalletNumber, second.WalletNumber)
}

func TestEnsureWallet_RegeneratesNumberOnCollision(t *testing.T) {
	uow := fakes.NewUoW()
	uow.WalletCreateConflicts = 2
	svc := newTestService(uow, mockpayment.New(""))

	w, err := svc.EnsureWallet(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, w.WalletNumber, walletdomain.NumberLength)
}

func TestEnsureWallet_GivesUpAfterRepeatedCollisions(t *testing.T) {
	uow := fakes.NewUoW()
	uow.WalletCreateConflicts = 100
	svc := newTestService(uow, mockpayment.New(""))

	_, err := svc.EnsureWallet(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestGetBalance_ProvisionsWallet(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))
	userID := uuid.New()

	balance, err := svc.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance)

	w, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, w.UserID)
}
