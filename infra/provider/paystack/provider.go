// Package paystack implements the payment gateway contract against the
// Paystack HTTP API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/provider/payment"
)

// Provider implements payment.Gateway using the Paystack REST API.
type Provider struct {
	cfg    *config.Paystack
	client *http.Client
	logger *slog.Logger
}

// New creates a Paystack gateway client. The HTTP client carries the
// configured seconds-scale timeout; initialize calls never hold any
// wallet-affecting lock.
func New(cfg *config.Paystack, logger *slog.Logger) (*Provider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("paystack secret key is not set")
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		logger: logger.With("provider", "paystack"),
	}, nil
}

type initializeRequest struct {
	Amount int64  `json:"amount"`
	Email  string `json:"email"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference        string `json:"reference"`
		AuthorizationURL string `json:"authorization_url"`
	} `json:"data"`
}

// Initialize implements payment.Gateway.
func (p *Provider) Initialize(ctx context.Context, params *payment.InitializeParams) (*payment.InitializeResponse, error) {
	body, err := json.Marshal(initializeRequest{Amount: params.Amount, Email: params.Email})
	if err != nil {
		return nil, err
	}

	respBody, err := p.post(ctx, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var parsed initializeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed initialize response", payment.ErrGatewayRejected)
	}
	if !parsed.Status {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayRejected, parsed.Message)
	}
	if parsed.Data.Reference == "" || parsed.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: incomplete transaction data", payment.ErrGatewayRejected)
	}

	p.logger.Info("transaction initialized", "reference", parsed.Data.Reference)
	return &payment.InitializeResponse{
		Reference:        parsed.Data.Reference,
		AuthorizationURL: parsed.Data.AuthorizationURL,
	}, nil
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// Verify implements payment.Gateway.
func (p *Provider) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.cfg.BaseUrl+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnreachable, err)
	}
	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	var parsed verifyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed verify response", payment.ErrGatewayRejected)
	}
	return &payment.VerifyResponse{
		Reference: parsed.Data.Reference,
		Status:    parsed.Data.Status,
		Amount:    parsed.Data.Amount,
	}, nil
}

func (p *Provider) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseUrl+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnreachable, err)
	}
	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// classifyTransportError maps client-side failures onto the gateway error
// taxonomy so callers can tell retryable timeouts from fatal rejections.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", payment.ErrGatewayTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", payment.ErrGatewayTimeout, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: DNS failure: %v", payment.ErrGatewayUnreachable, err)
	}
	return fmt.Errorf("%w: %v", payment.ErrGatewayUnreachable, err)
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return payment.ErrGatewayUnauthorized
	case status >= 500:
		return fmt.Errorf("%w: gateway returned %d", payment.ErrGatewayUnreachable, status)
	case status >= 400:
		return fmt.Errorf("%w: %s", payment.ErrGatewayRejected, gatewayMessage(body))
	}
	return nil
}

func gatewayMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return "request failed"
}
