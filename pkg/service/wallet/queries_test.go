package wallet_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/walletd/infra/provider/mockpayment"
	"github.com/amirasaad/walletd/internal/fixtures/fakes"
	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactions_FiltersByStatus(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))
	userID := uuid.New()

	for i, status := range []string{"PENDING", "SUCCESS", "FAILED", "SUCCESS"} {
		uow.SeedTransaction(&dto.TransactionRead{
			ID:        uuid.New(),
			UserID:    userID,
			Kind:      string(walletdomain.KindDeposit),
			Status:    status,
			Amount:    int64(100 * (i + 1)),
			Reference: uuid.NewString(),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	all, err := svc.ListTransactions(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	succeeded, err := svc.ListTransactions(context.Background(), userID, "success")
	require.NoError(t, err)
	assert.Len(t, succeeded, 2)
	for _, txn := range succeeded {
		assert.Equal(t, string(walletdomain.StatusSuccess), txn.Status)
	}
}

func TestListTransactions_NewestFirst(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))
	userID := uuid.New()

	base := time.Now()
	for i := 0; i < 3; i++ {
		uow.SeedTransaction(&dto.TransactionRead{
			ID:        uuid.New(),
			UserID:    userID,
			Kind:      string(walletdomain.KindDeposit),
			Status:    "PENDING",
			Amount:    int64(i + 1),
			Reference: uuid.NewString(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	txs, err := svc.ListTransactions(context.Background(), userID, "")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.EqualValues(t, 3, txs[0].Amount)
	assert.EqualValues(t, 1, txs[2].Amount)
}

func TestListTransactions_UnknownStatusRejected(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))

	_, err := svc.ListTransactions(context.Background(), uuid.New(), "REVERSED")
	require.ErrorIs(t, err, domain.ErrInvalidStatusFilter)
}

func TestGetDepositStatus(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(""))
	_, txn := seedPendingDeposit(uow, 2_500)

	got, err := svc.GetDepositStatus(context.Background(), txn.Reference)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)
	assert.Equal(t, string(walletdomain.StatusPending), got.Status)

	_, err = svc.GetDepositStatus(context.Background(), "ref_unknown")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = svc.GetDepositStatus(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrValidation)
}
