package mockpayment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/amirasaad/walletd/pkg/provider/payment"
	"github.com/google/uuid"
)

// MockGateway simulates the payment gateway for tests and local development.
//
// Initialize hands out a predictable reference and remembers the amount so
// Verify can answer for it. An injectable InitializeErr lets tests exercise
// the gateway error taxonomy. This is NOT for production use.
type MockGateway struct {
	mu      sync.Mutex
	secret  string
	amounts map[string]int64

	// InitializeErr, when set, is returned by Initialize unchanged.
	InitializeErr error
}

// New creates a new MockGateway. With a non-empty secret the mock verifies
// webhook signatures exactly like the real gateway; with an empty secret any
// non-empty signature passes.
func New(secret string) *MockGateway {
	return &MockGateway{secret: secret, amounts: make(map[string]int64)}
}

// Initialize implements payment.Gateway.
func (m *MockGateway) Initialize(ctx context.Context, params *payment.InitializeParams) (*payment.InitializeResponse, error) {
	if m.InitializeErr != nil {
		return nil, m.InitializeErr
	}
	reference := "mock_" + uuid.NewString()
	m.mu.Lock()
	m.amounts[reference] = params.Amount
	m.mu.Unlock()
	return &payment.InitializeResponse{
		Reference:        reference,
		AuthorizationURL: fmt.Sprintf("https://checkout.example.test/%s", reference),
	}, nil
}

// Verify implements payment.Gateway.
func (m *MockGateway) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	m.mu.Lock()
	amount, ok := m.amounts[reference]
	m.mu.Unlock()
	if !ok {
		return nil, payment.ErrGatewayRejected
	}
	return &payment.VerifyResponse{Reference: reference, Status: "success", Amount: amount}, nil
}

// VerifySignature implements payment.Gateway.
func (m *MockGateway) VerifySignature(rawBody []byte, signature string) error {
	if signature == "" {
		return domain.ErrMissingSignature
	}
	if m.secret == "" {
		return nil
	}
	mac := hmac.New(sha512.New, []byte(m.secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
