package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "chronoworks/internal/log"
)

// Register mounts all API routes on app.
func Register(app *fiber.App, d *Deps) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", d.AuthHandler.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	api.Get("/auth/me", RequireUser(d.Auth), d.AuthHandler.Me)
	api.Put("/auth/me", RequireUser(d.Auth), d.AuthHandler.UpdateProfile)
	api.Put("/auth/me/password", RequireUser(d.Auth), d.AuthHandler.ChangePassword)

	// Catalog
	api.Get("/home", d.CatalogHandler.Home)
	api.Get("/search", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}), d.CatalogHandler.Search)
	api.Get("/categories", d.CatalogHandler.Categories)
	api.Get("/products", d.CatalogHandler.Products)
	api.Get("/products/featured", d.CatalogHandler.Featured)
	api.Get("/products/:id", d.CatalogHandler.Detail)
	api.Get("/products/:id/related", d.CatalogHandler.Related)
	api.Get("/availability", d.CatalogHandler.Availability)

	// Cart
	cart := api.Group("/cart", RequireUser(d.Auth))
	cart.Get("/", d.CartHandler.List)
	cart.Post("/items", d.CartHandler.Add)
	cart.Put("/items/:productId", d.CartHandler.SetQuantity)
	cart.Delete("/items/:productId", d.CartHandler.Remove)
	cart.Get("/summary", d.CartHandler.Summary)
	cart.Get("/count", d.CartHandler.Count)
	cart.Delete("/", d.CartHandler.Clear)

	// Orders
	orders := api.Group("/orders", RequireUser(d.Auth))
	orders.Post("/", d.OrderHandler.Create)
	orders.Get("/", d.OrderHandler.List)
	orders.Get("/:id", d.OrderHandler.Detail)
	orders.Post("/:id/cancel", d.OrderHandler.Cancel)

	// Admin
	admin := api.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/orders", d.AdminHandler.Orders)
	admin.Post("/orders/:id/status", d.AdminHandler.UpdateStatus)
	admin.Get("/stats", d.AdminHandler.Stats)
	admin.Get("/users", d.AdminHandler.Users)
	admin.Post("/products/:id/stock", d.AdminHandler.AdjustStock)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
