// Package initializer wires infrastructure dependencies at process start.
package initializer

import (
	"fmt"

	"github.com/amirasaad/walletd/infra"
	"github.com/amirasaad/walletd/infra/provider/paystack"
	"github.com/amirasaad/walletd/pkg/config"
)

// InitializeDependencies builds every infrastructure dependency the services
// need: logger, database connection, unit of work and the payment gateway.
func InitializeDependencies(cfg *config.App) (config.Deps, error) {
	deps := config.Deps{Config: cfg}

	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return deps, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.Uow = infra.NewUoW(db)

	gateway, err := paystack.New(cfg.Paystack, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to initialize payment gateway: %w", err)
	}
	deps.Gateway = gateway

	return deps, nil
}
