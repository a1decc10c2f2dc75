// Package app assembles the service layer from its dependencies.
package app

import (
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/service/apikey"
	"github.com/amirasaad/walletd/pkg/service/auth"
	"github.com/amirasaad/walletd/pkg/service/user"
	"github.com/amirasaad/walletd/pkg/service/wallet"
)

// App bundles the constructed services behind one handle for the web layer
// and the CLI.
type App struct {
	Deps          config.Deps
	Config        *config.App
	AuthService   *auth.Service
	UserService   *user.Service
	WalletService *wallet.Service
	APIKeyService *apikey.Service
}

// New wires every service from the shared dependency bundle.
func New(deps config.Deps) *App {
	return &App{
		Deps:          deps,
		Config:        deps.Config,
		AuthService:   auth.NewService(deps),
		UserService:   user.NewService(deps),
		WalletService: wallet.NewService(deps),
		APIKeyService: apikey.NewService(deps),
	}
}
