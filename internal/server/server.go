package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meridianvest/platform/internal/auth"
)

// Deps carries everything the router needs. Health may be nil, in which case
// the database readiness gate is skipped (used by handler tests).
type Deps struct {
	Health  DatabaseHealth
	Auth    *AuthController
	Account *AccountController
	Tokens  *auth.TokenService
}

// New builds the fiber app and mounts all routes.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	if deps.Health != nil {
		api.Use(DatabaseReady(deps.Health))
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/register", deps.Auth.Register)
	authGroup.Post("/login", deps.Auth.Login)
	authGroup.Post("/retokenization", deps.Auth.Retokenization)
	authGroup.Delete("/logout", deps.Auth.Logout)
	authGroup.Get("/verify-email", deps.Auth.VerifyEmail)
	authGroup.Post("/change-password", Protected(deps.Tokens), deps.Auth.ChangePassword)
	authGroup.Get("/check-user/:email", deps.Auth.CheckUser)
	authGroup.Post("/reset-password/:userId/:email", deps.Auth.ResetPassword)

	api.Get("/user", Protected(deps.Tokens), deps.Account.Profile)

	return app
}
