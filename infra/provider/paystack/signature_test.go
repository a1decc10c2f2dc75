package paystack_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/walletd/infra/provider/paystack"
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/domain"
)

const testSecret = "sk_test_signature_secret"

func newSignatureProvider(t *testing.T) *paystack.Provider {
	t.Helper()
	p, err := paystack.New(&config.Paystack{
		SecretKey: testSecret,
		BaseUrl:   "https://api.paystack.test",
	}, slog.Default())
	require.NoError(t, err)
	return p
}

func TestVerifySignatureRoundtrip(t *testing.T) {
	p := newSignatureProvider(t)
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1","amount":5000}}`)

	sig := paystack.Sign(testSecret, body)
	assert.NoError(t, p.VerifySignature(body, sig))
}

func TestVerifySignatureMissing(t *testing.T) {
	p := newSignatureProvider(t)

	err := p.VerifySignature([]byte(`{}`), "")
	assert.ErrorIs(t, err, domain.ErrMissingSignature)
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	p := newSignatureProvider(t)
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1","amount":5000}}`)
	sig := paystack.Sign(testSecret, body)

	tampered := []byte(`{"event":"charge.success","data":{"reference":"ref_1","amount":9000}}`)
	err := p.VerifySignature(tampered, sig)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	p := newSignatureProvider(t)
	body := []byte(`{"event":"charge.success"}`)

	sig := paystack.Sign("some_other_secret", body)
	err := p.VerifySignature(body, sig)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignatureGarbage(t *testing.T) {
	p := newSignatureProvider(t)

	err := p.VerifySignature([]byte(`{}`), "definitely-not-hex-hmac")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestSignIsDeterministic(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)

	assert.Equal(t, paystack.Sign(testSecret, body), paystack.Sign(testSecret, body))
	assert.NotEqual(t, paystack.Sign(testSecret, body), paystack.Sign("other", body))
	assert.Len(t, paystack.Sign(testSecret, body), 128)
}
