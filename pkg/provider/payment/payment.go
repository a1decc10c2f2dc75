// Package payment defines the outbound contract to the payment gateway.
// The gateway is an opaque remote service; the core only knows its
// initialize/verify/sign surface.
package payment

import (
	"context"
	"errors"
)

// Gateway is the interface to the remote payment provider.
type Gateway interface {
	// Initialize opens a hosted payment session for the given amount and
	// customer email, returning an opaque reference and a redirect URL.
	// The call carries its own timeout and must be made before any ledger
	// mutation; implementations never touch wallet state.
	Initialize(ctx context.Context, params *InitializeParams) (*InitializeResponse, error)

	// VerifySignature checks a webhook signature against the MAC computed
	// over the exact raw request body.
	VerifySignature(rawBody []byte, signature string) error

	// Verify fetches the gateway's view of a transaction by reference.
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
}

// InitializeParams holds the inputs for Gateway.Initialize.
type InitializeParams struct {
	Amount int64
	Email  string
}

// InitializeResponse is the gateway's answer to a successful initialize.
type InitializeResponse struct {
	Reference        string
	AuthorizationURL string
}

// VerifyResponse is the gateway's view of a transaction.
type VerifyResponse struct {
	Reference string
	Status    string
	Amount    int64
}

// Gateway error taxonomy. Timeout and unreachable are retryable; the caller
// can distinguish "try again" from "contact support".
var (
	// ErrGatewayTimeout indicates the request to the gateway timed out.
	ErrGatewayTimeout = errors.New("payment gateway request timed out")
	// ErrGatewayUnreachable indicates a transport-level failure (DNS,
	// connection refused, gateway 5xx).
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
	// ErrGatewayUnauthorized indicates the gateway rejected our credentials.
	ErrGatewayUnauthorized = errors.New("payment gateway rejected authentication")
	// ErrGatewayRejected indicates the gateway refused the request itself.
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)

// Retryable reports whether a gateway error is worth retrying.
func Retryable(err error) bool {
	return errors.Is(err, ErrGatewayTimeout) || errors.Is(err, ErrGatewayUnreachable)
}
