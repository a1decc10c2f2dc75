package wallet

import (
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/middleware"
	authsvc "github.com/amirasaad/walletd/pkg/service/auth"
	walletsvc "github.com/amirasaad/walletd/pkg/service/wallet"
	"github.com/amirasaad/walletd/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for wallet operations using the Fiber web
// framework. All routes except the webhook accept either a Bearer JWT or an
// X-API-Key header; API keys are further checked against the permission each
// operation requires.
//
// Routes:
//   - POST /wallet/deposit               : Start a deposit through the payment gateway.
//   - POST /wallet/transfer              : Transfer funds to another wallet.
//   - GET  /wallet/balance              : Retrieve the caller's wallet balance.
//   - GET  /wallet/transactions         : List the caller's transactions.
//   - GET  /wallet/deposits/:reference  : Check the status of a deposit.
//   - POST /wallet/webhook              : Payment gateway notifications (signature-authenticated).
func Routes(
	app *fiber.App,
	walletSvc *walletsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	guard := middleware.RequirePrincipal(authSvc, cfg.Auth.Jwt)
	app.Post("/wallet/deposit", guard, middleware.RequirePermission(authsvc.OpStartDeposit), StartDeposit(walletSvc))
	app.Post("/wallet/transfer", guard, middleware.RequirePermission(authsvc.OpTransfer), Transfer(walletSvc))
	app.Get("/wallet/balance", guard, middleware.RequirePermission(authsvc.OpReadBalance), GetBalance(walletSvc))
	app.Get("/wallet/transactions", guard, middleware.RequirePermission(authsvc.OpReadTransactions), ListTransactions(walletSvc))
	app.Get("/wallet/deposits/:reference", guard, middleware.RequirePermission(authsvc.OpReadDeposit), GetDepositStatus(walletSvc))
	app.Post("/wallet/webhook", Webhook(walletSvc))
}

// StartDeposit returns a Fiber handler that initializes a deposit with the
// payment gateway and records a pending transaction. On success it returns
// the gateway reference and authorization URL the client must complete.
func StartDeposit(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := middleware.Principal(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing principal", fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err // error response already written
		}
		intent, err := walletSvc.StartDeposit(c.UserContext(), principal.UserID, input.Amount)
		if err != nil {
			log.Errorf("Failed to start deposit: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to start deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit initialized", intent)
	}
}

// Transfer returns a Fiber handler that moves funds from the caller's wallet
// to the wallet identified by wallet number in the request body.
func Transfer(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := middleware.Principal(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing principal", fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := walletSvc.Transfer(c.UserContext(), principal.UserID, input.WalletNumber, input.Amount)
		if err != nil {
			log.Errorf("Failed to transfer: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", tx)
	}
}

// GetBalance returns a Fiber handler for retrieving the caller's wallet
// balance, provisioning the wallet first if the user does not have one yet.
func GetBalance(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := middleware.Principal(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing principal", fiber.StatusUnauthorized)
		}
		balance, err := walletSvc.GetBalance(c.UserContext(), principal.UserID)
		if err != nil {
			log.Errorf("Failed to fetch balance: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to fetch balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", fiber.Map{"balance": balance})
	}
}

// ListTransactions returns a Fiber handler that lists the caller's
// transactions, newest first, optionally filtered by ?status=.
func ListTransactions(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := middleware.Principal(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing principal", fiber.StatusUnauthorized)
		}
		txs, err := walletSvc.ListTransactions(c.UserContext(), principal.UserID, c.Query("status"))
		if err != nil {
			log.Errorf("Failed to list transactions: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", txs)
	}
}

// GetDepositStatus returns a Fiber handler for checking a deposit by its
// gateway reference.
func GetDepositStatus(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.Principal(c); !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing principal", fiber.StatusUnauthorized)
		}
		tx, err := walletSvc.GetDepositStatus(c.UserContext(), c.Params("reference"))
		if err != nil {
			log.Errorf("Failed to fetch deposit status: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to fetch deposit status", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit status fetched", tx)
	}
}
