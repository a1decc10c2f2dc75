// Command cli provides operator utilities: creating users and issuing API
// keys without going through the HTTP surface.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/amirasaad/walletd/infra/initializer"
	"github.com/amirasaad/walletd/pkg/app"
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		color.Red("Failed to initialize dependencies: %v", err)
		os.Exit(1)
	}
	a := app.New(deps)
	ctx := context.Background()

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) < 4 {
			fmt.Println("Usage: cli create-user <username> <email>")
			os.Exit(1)
		}
		createUser(ctx, a, os.Args[2], os.Args[3])
	case "issue-key":
		if len(os.Args) < 5 {
			fmt.Println("Usage: cli issue-key <user_id> <name> <permissions> [expiry]")
			fmt.Println("  permissions: comma-separated from deposit,transfer,read")
			fmt.Println("  expiry: 1H, 1D, 1M or 1Y (default 1M)")
			os.Exit(1)
		}
		expiry := "1M"
		if len(os.Args) > 5 {
			expiry = os.Args[5]
		}
		issueKey(ctx, a, os.Args[2], os.Args[3], os.Args[4], expiry)
	case "revoke-key":
		if len(os.Args) < 4 {
			fmt.Println("Usage: cli revoke-key <user_id> <key_id>")
			os.Exit(1)
		}
		revokeKey(ctx, a, os.Args[2], os.Args[3])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create-user <username> <email>                     prompt for a password and register a user")
	fmt.Println("  issue-key <user_id> <name> <permissions> [expiry]  issue an API key")
	fmt.Println("  revoke-key <user_id> <key_id>                      revoke an API key")
}

func createUser(ctx context.Context, a *app.App, username, email string) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		color.Red("Failed to read password: %v", err)
		os.Exit(1)
	}
	u, err := a.UserService.Create(ctx, username, email, string(password), "")
	if err != nil {
		color.Red("Failed to create user: %v", err)
		os.Exit(1)
	}
	color.Green("User created: %s", u.ID)
}

func issueKey(ctx context.Context, a *app.App, rawUserID, name, permissions, expiry string) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		color.Red("Invalid user ID: %v", err)
		os.Exit(1)
	}
	issued, err := a.APIKeyService.Create(ctx, userID, name, strings.Split(permissions, ","), expiry)
	if err != nil {
		color.Red("Failed to issue API key: %v", err)
		os.Exit(1)
	}
	color.Green("API key %s issued, expires %s", issued.ID, issued.ExpiresAt.Format("2006-01-02 15:04:05"))
	color.Yellow("Secret (shown once): %s", issued.RawKey)
}

func revokeKey(ctx context.Context, a *app.App, rawUserID, rawKeyID string) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		color.Red("Invalid user ID: %v", err)
		os.Exit(1)
	}
	keyID, err := uuid.Parse(rawKeyID)
	if err != nil {
		color.Red("Invalid key ID: %v", err)
		os.Exit(1)
	}
	if err := a.APIKeyService.Revoke(ctx, userID, keyID); err != nil {
		color.Red("Failed to revoke API key: %v", err)
		os.Exit(1)
	}
	color.Green("API key %s revoked", keyID)
}
