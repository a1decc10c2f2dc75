package wallet

import (
	"errors"

	"github.com/amirasaad/walletd/pkg/domain"
	walletsvc "github.com/amirasaad/walletd/pkg/service/wallet"
	"github.com/amirasaad/walletd/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// SignatureHeader carries the gateway's HMAC over the raw request body.
const SignatureHeader = "x-paystack-signature"

// Webhook returns a Fiber handler for payment gateway notifications. The
// handler is authenticated by the body signature, never by a user token.
// Replays and unrecognized event types are acknowledged with 200 so the
// gateway stops redelivering; a missing or bad signature, an unknown
// reference, or an amount mismatch are surfaced as errors so the failure is
// visible on the gateway side.
func Webhook(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get(SignatureHeader)
		// c.Body() is the exact bytes the gateway signed; re-serializing a
		// parsed payload would break verification.
		result, err := walletSvc.ProcessWebhook(c.UserContext(), c.Body(), signature)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingSignature):
				return common.ProblemDetailsJSON(c, "Missing webhook signature", err)
			case errors.Is(err, domain.ErrInvalidSignature):
				log.Warnf("Webhook signature rejected from %s", c.IP())
				return common.ProblemDetailsJSON(c, "Invalid webhook signature", err)
			case errors.Is(err, domain.ErrTransactionNotFound):
				return common.ProblemDetailsJSON(c, "Unknown transaction reference", err)
			case errors.Is(err, domain.ErrAmountMismatch):
				log.Errorf("Webhook amount mismatch: %v", err)
				return common.ProblemDetailsJSON(c, "Amount mismatch", err)
			default:
				log.Errorf("Failed to process webhook: %v", err)
				return common.ProblemDetailsJSON(c, "Failed to process webhook", err)
			}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Webhook processed", result)
	}
}
