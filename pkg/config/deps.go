package config

import (
	"log/slog"

	"github.com/amirasaad/walletd/pkg/provider/payment"
	"github.com/amirasaad/walletd/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and
// services. Everything is wired explicitly at startup; there is no shared
// persistence-client singleton.
type Deps struct {
	Uow     repository.UnitOfWork
	Gateway payment.Gateway
	Logger  *slog.Logger
	Config  *App
}
