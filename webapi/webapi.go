// Package webapi provides HTTP handlers and API endpoints for the wallet
// service. It is organized into sub-packages per feature:
//   - wallet: deposits, transfers, balance, transaction history, gateway webhook
//   - auth: authentication endpoints
//   - user: user registration and lookup
//   - apikeys: API key management
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/walletd/pkg/app"
	apikeysweb "github.com/amirasaad/walletd/webapi/apikeys"
	authweb "github.com/amirasaad/walletd/webapi/auth"
	"github.com/amirasaad/walletd/webapi/common"
	userweb "github.com/amirasaad/walletd/webapi/user"
	walletweb "github.com/amirasaad/walletd/webapi/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with the application's middleware stack and
// feature routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, nil, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Rate limiting keyed by client IP. Uses X-Forwarded-For when behind a
	// proxy, falling back to X-Real-IP, then the direct peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Wallet API is running! 🚀")
	})

	walletweb.Routes(fiberApp, a.WalletService, a.AuthService, a.Config)
	userweb.Routes(fiberApp, a.UserService, a.Config)
	authweb.Routes(fiberApp, a.AuthService)
	apikeysweb.Routes(fiberApp, a.APIKeyService, a.AuthService, a.Config)
	return fiberApp
}
