package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/amirasaad/walletd/pkg/domain"
)

// VerifySignature implements payment.Gateway. The MAC is computed over the
// exact raw transport bytes, never a re-serialized structure: re-serialization
// can silently change byte content and normalize attacker-controlled fields
// before verification. Comparison is constant time.
func (p *Provider) VerifySignature(rawBody []byte, signature string) error {
	if signature == "" {
		return domain.ErrMissingSignature
	}
	mac := hmac.New(sha512.New, []byte(p.cfg.SecretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the hex HMAC-SHA512 of body with the shared secret. Used by
// tests and tooling to produce well-formed webhook signatures.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
