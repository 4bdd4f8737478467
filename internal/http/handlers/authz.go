package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chronoworks/internal/domain"
	applog "chronoworks/internal/log"
	"chronoworks/internal/services"
	"chronoworks/internal/validate"
)

// The presentation layer authenticates and passes the caller's identity as
// an explicit X-User-ID header; no identity lives in process state.
const userHeader = "X-User-ID"

func resolveUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	uid, okID := validate.ID(c.Get(userHeader))
	if !okID {
		return nil
	}
	u, err := auth.GetByID(uid)
	if err != nil {
		return nil
	}
	return u
}

// RequireUser resolves the caller to an active user and stores it in Locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := resolveUser(c, auth)
		if u == nil {
			applog.Security(c, "access.denied.user", map[string]any{"user_id": c.Get(userHeader)})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "message": "authentication required",
			})
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// RequireAdmin additionally gates on the admin flag.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := resolveUser(c, auth)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "message": "authentication required",
			})
		}
		if !u.Admin {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false, "message": "admin access required",
			})
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
