package user

import (
	"errors"

	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/amirasaad/walletd/pkg/middleware"
	usersvc "github.com/amirasaad/walletd/pkg/service/user"
	"github.com/amirasaad/walletd/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers user registration and lookup endpoints. Registration is
// open; lookup requires a JWT.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg *config.App) {
	app.Post("/user", CreateUser(userSvc))
	app.Get("/user/:id", middleware.JwtProtected(cfg.Auth.Jwt), GetUser(userSvc))
}

// CreateUser registers a new user account with username, email and password.
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.Create(c.UserContext(), input.Username, input.Email, input.Password, input.Names)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return common.ProblemDetailsJSON(c, "Username or email already taken", nil, "Choose a different username or email", fiber.StatusConflict)
			}
			log.Errorf("Failed to create user: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User created", u)
	}
}

// GetUser retrieves a user by ID.
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			log.Errorf("Invalid user ID: %v", err)
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, "User ID must be a valid UUID", fiber.StatusBadRequest)
		}
		u, err := userSvc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}
