// Package middleware provides authentication middleware for the web API.
package middleware

import (
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/amirasaad/walletd/pkg/config"
	authsvc "github.com/amirasaad/walletd/pkg/service/auth"
)

// PrincipalKey is the fiber locals key holding the resolved *auth.Principal.
const PrincipalKey = "principal"

// JwtProtected guards a route with JWT bearer authentication.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
}

// RequirePrincipal resolves a caller identity from either a JWT bearer token
// or an X-API-Key header and stores it in locals. Wallet operations accept
// both credential types; the handlers only ever see the resolved principal.
func RequirePrincipal(svc *authsvc.Service, cfg *config.Jwt) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if bearer := bearerToken(c); bearer != "" {
			token, err := jwt.Parse(bearer, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.Secret), nil
			})
			if err != nil || !token.Valid {
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
			}
			principal, err := svc.PrincipalFromToken(token)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
			}
			c.Locals(PrincipalKey, principal)
			return c.Next()
		}

		if apiKey := c.Get("X-API-Key"); apiKey != "" {
			principal, err := svc.PrincipalFromAPIKey(c.Context(), apiKey)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"status": "error", "message": "Invalid or expired API key"})
			}
			c.Locals(PrincipalKey, principal)
			return c.Next()
		}

		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"status": "error", "message": "Missing authentication: JWT or API key required"})
	}
}

// RequirePermission gates a route on the explicit operation-to-permission
// table. It must run after RequirePrincipal.
func RequirePermission(op authsvc.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := c.Locals(PrincipalKey).(*authsvc.Principal)
		if !authsvc.Allowed(op, principal) {
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"status": "error", "message": "Missing required permission"})
		}
		return c.Next()
	}
}

// Principal returns the resolved principal stored by RequirePrincipal.
func Principal(c *fiber.Ctx) (*authsvc.Principal, bool) {
	principal, ok := c.Locals(PrincipalKey).(*authsvc.Principal)
	return principal, ok
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
