package wallet_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/amirasaad/walletd/infra/provider/mockpayment"
	"github.com/amirasaad/walletd/infra/provider/paystack"
	"github.com/amirasaad/walletd/internal/fixtures/fakes"
	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/dto"
	walletsvc "github.com/amirasaad/walletd/pkg/service/wallet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "sk_test_whsec"

func chargeBody(event, reference string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"data":{"reference":%q,"amount":%d}}`, event, reference, amount))
}

// seedPendingDeposit stores a user, their wallet and a PENDING deposit row.
func seedPendingDeposit(uow *fakes.UoW, amount int64) (*dto.WalletRead, *dto.TransactionRead) {
	u := seedUser(uow)
	w := seedWallet(uow, u.ID, "4000000000001", 0)
	txn := &dto.TransactionRead{
		ID:        uuid.New(),
		UserID:    u.ID,
		Kind:      string(walletdomain.KindDeposit),
		Status:    string(walletdomain.StatusPending),
		Amount:    amount,
		Reference: "ref_" + uuid.NewString(),
	}
	uow.SeedTransaction(txn)
	return w, txn
}

func TestProcessWebhook_ChargeSuccessCreditsWallet(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.success", txn.Reference, 5_000)
	result, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, walletdomain.StatusSuccess, result.Status)
	assert.EqualValues(t, 5_000, uow.Wallet(w.ID).Balance)

	stored := uow.Transaction(txn.ID)
	assert.Equal(t, string(walletdomain.StatusSuccess), stored.Status)
	assert.NotNil(t, stored.SettledAt)
}

func TestProcessWebhook_ReplayIsIdempotent(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.success", txn.Reference, 5_000)
	sig := paystack.Sign(webhookSecret, body)

	first, err := svc.ProcessWebhook(context.Background(), body, sig)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	for i := 0; i < 3; i++ {
		replay, err := svc.ProcessWebhook(context.Background(), body, sig)
		require.NoError(t, err)
		assert.False(t, replay.Applied)
		assert.True(t, replay.AlreadyProcessed)
	}

	// Credited exactly once.
	assert.EqualValues(t, 5_000, uow.Wallet(w.ID).Balance)
}

func TestProcessWebhook_ChargeFailedSettlesWithoutCredit(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.failed", txn.Reference, 5_000)
	result, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, walletdomain.StatusFailed, result.Status)
	assert.EqualValues(t, 0, uow.Wallet(w.ID).Balance)
	assert.Equal(t, string(walletdomain.StatusFailed), uow.Transaction(txn.ID).Status)
}

func TestProcessWebhook_FailedThenSuccessReplayDoesNotRevive(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	failed := chargeBody("charge.failed", txn.Reference, 5_000)
	_, err := svc.ProcessWebhook(context.Background(), failed, paystack.Sign(webhookSecret, failed))
	require.NoError(t, err)

	// A later success for the same reference must not flip the terminal
	// status or credit the wallet.
	success := chargeBody("charge.success", txn.Reference, 5_000)
	result, err := svc.ProcessWebhook(context.Background(), success, paystack.Sign(webhookSecret, success))
	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, string(walletdomain.StatusFailed), uow.Transaction(txn.ID).Status)
	assert.EqualValues(t, 0, uow.Wallet(w.ID).Balance)
}

func TestProcessWebhook_MissingSignature(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	_, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.success", txn.Reference, 5_000)
	_, err := svc.ProcessWebhook(context.Background(), body, "")
	require.ErrorIs(t, err, domain.ErrMissingSignature)
}

func TestProcessWebhook_TamperedBodyRejected(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.success", txn.Reference, 5_000)
	sig := paystack.Sign(webhookSecret, body)
	tampered := chargeBody("charge.success", txn.Reference, 50_000)

	_, err := svc.ProcessWebhook(context.Background(), tampered, sig)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.EqualValues(t, 0, uow.Wallet(w.ID).Balance)
	assert.Equal(t, string(walletdomain.StatusPending), uow.Transaction(txn.ID).Status)
}

func TestProcessWebhook_WrongSecretRejected(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	_, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.success", txn.Reference, 5_000)
	_, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign("some-other-secret", body))
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestProcessWebhook_AmountMismatchRejected(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("charge.success", txn.Reference, 4_999)
	_, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.ErrorIs(t, err, domain.ErrAmountMismatch)
	assert.EqualValues(t, 0, uow.Wallet(w.ID).Balance)
	assert.Equal(t, string(walletdomain.StatusPending), uow.Transaction(txn.ID).Status)
}

func TestProcessWebhook_UnknownReference(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))

	body := chargeBody("charge.success", "ref_does_not_exist", 5_000)
	_, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestProcessWebhook_UnrecognizedEventIgnored(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))
	w, txn := seedPendingDeposit(uow, 5_000)

	body := chargeBody("transfer.success", txn.Reference, 5_000)
	result, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.NoError(t, err)
	assert.True(t, result.Ignored)
	assert.False(t, result.Applied)
	assert.EqualValues(t, 0, uow.Wallet(w.ID).Balance)
}

func TestProcessWebhook_MalformedPayload(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))

	body := []byte(`{"event": "charge.success", "data": `)
	_, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestProcessWebhook_MissingReference(t *testing.T) {
	uow := fakes.NewUoW()
	svc := newTestService(uow, mockpayment.New(webhookSecret))

	body := []byte(`{"event":"charge.success","data":{"amount":100}}`)
	_, err := svc.ProcessWebhook(context.Background(), body, paystack.Sign(webhookSecret, body))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseEvent_TagsKnownAndUnknownKinds(t *testing.T) {
	cases := []struct {
		event string
		want  string
	}{
		{"charge.success", "charge.success"},
		{"charge.failed", "charge.failed"},
		{"subscription.create", "unrecognized"},
		{"", "unrecognized"},
	}
	for _, tc := range cases {
		body := chargeBody(tc.event, "ref", 1)
		ev, err := walletsvc.ParseEvent(body)
		require.NoError(t, err)
		assert.EqualValues(t, tc.want, ev.Kind)
	}
}
