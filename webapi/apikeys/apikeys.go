// Package apikeys exposes API key management over HTTP. Key management is
// deliberately JWT-only: an API key can never mint, roll over or revoke
// other keys.
package apikeys

import (
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/middleware"
	apikeysvc "github.com/amirasaad/walletd/pkg/service/apikey"
	authsvc "github.com/amirasaad/walletd/pkg/service/auth"
	"github.com/amirasaad/walletd/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Routes registers API key management endpoints.
//
// Routes:
//   - POST   /api-keys               : Issue a new API key.
//   - POST   /api-keys/:id/rollover  : Roll an expired key over to a fresh secret.
//   - DELETE /api-keys/:id           : Revoke a key.
func Routes(app *fiber.App, keySvc *apikeysvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/api-keys", middleware.JwtProtected(cfg.Auth.Jwt), CreateKey(keySvc, authSvc))
	app.Post("/api-keys/:id/rollover", middleware.JwtProtected(cfg.Auth.Jwt), RolloverKey(keySvc, authSvc))
	app.Delete("/api-keys/:id", middleware.JwtProtected(cfg.Auth.Jwt), RevokeKey(keySvc, authSvc))
}

// CreateKey issues a new API key scoped to the requested permissions. The
// raw secret appears once in this response and is never retrievable again.
func CreateKey(keySvc *apikeysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := tokenPrincipal(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[CreateKeyRequest](c)
		if input == nil {
			return err // error response already written
		}
		issued, err := keySvc.Create(c.UserContext(), principal.UserID, input.Name, input.Permissions, input.Expiry)
		if err != nil {
			log.Errorf("Failed to create API key: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create API key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "API key created", issued)
	}
}

// RolloverKey replaces an expired key with a fresh secret carrying the same
// name and permissions. Keys that have not expired yet cannot be rolled.
func RolloverKey(keySvc *apikeysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := tokenPrincipal(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
		}
		keyID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key ID", err, "Key ID must be a valid UUID", fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[RolloverRequest](c)
		if input == nil {
			return err // error response already written
		}
		issued, err := keySvc.Rollover(c.UserContext(), principal.UserID, keyID, input.Expiry)
		if err != nil {
			log.Errorf("Failed to roll over API key %s: %v", keyID, err)
			return common.ProblemDetailsJSON(c, "Failed to roll over API key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "API key rolled over", issued)
	}
}

// RevokeKey revokes a key. Revoking an already-revoked key is a no-op.
func RevokeKey(keySvc *apikeysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := tokenPrincipal(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
		}
		keyID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key ID", err, "Key ID must be a valid UUID", fiber.StatusBadRequest)
		}
		if err := keySvc.Revoke(c.UserContext(), principal.UserID, keyID); err != nil {
			log.Errorf("Failed to revoke API key %s: %v", keyID, err)
			return common.ProblemDetailsJSON(c, "Failed to revoke API key", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "API key revoked", nil)
	}
}

func tokenPrincipal(c *fiber.Ctx, authSvc *authsvc.Service) (*authsvc.Principal, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return authSvc.PrincipalFromToken(token)
}
