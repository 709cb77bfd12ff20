package server

import (
	"github.com/gofiber/fiber/v2"
)

// AccountController serves endpoints that require an authenticated session.
type AccountController struct {
	users UserRepository
}

func NewAccountController(users UserRepository) *AccountController {
	return &AccountController{users: users}
}

// Profile returns the current user, resolved fresh from the store so the
// response reflects changes made after the token was issued.
func (a *AccountController) Profile(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing token",
		})
	}

	user, err := a.users.FindByID(c.Context(), claims.UserID())
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user.Safe(),
	})
}
