package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meridianvest/platform/internal/auth"
)

// claimsKey is where the middleware parks the validated claims for handlers.
const claimsKey = "claims"

// Protected gates a route on a valid bearer access token. No refresh happens
// here; expired tokens get 401 and the client drives re-issuance through the
// retokenization endpoint.
func Protected(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Missing token",
			})
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext pulls the authenticated identity a Protected route
// attached.
func ClaimsFromContext(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok
}

// bearerToken extracts the token from an Authorization header. Only the
// Bearer scheme is accepted.
func bearerToken(header string) string {
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return ""
	}
	return strings.TrimSpace(header[len(scheme):])
}

// DatabaseHealth reports whether the database is currently reachable.
type DatabaseHealth interface {
	Ready() bool
}

// DatabaseReady short-circuits requests with 503 while the database is not in
// a ready state, so handlers never run against a dead connection. The check
// reads cached monitor state, it costs no database round-trip.
func DatabaseReady(health DatabaseHealth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if health == nil || !health.Ready() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Database temporarily unavailable. Please try again in a moment.",
			})
		}
		return c.Next()
	}
}
