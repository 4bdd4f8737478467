package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "chronoworks/internal/log"
	"chronoworks/internal/services"
	"chronoworks/internal/validate"
)

type AdminHandler struct {
	Order   *services.OrderService
	Catalog *services.CatalogService
	Auth    *services.AuthService
}

// GET /api/v1/admin/orders?status=&limit=&offset=
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"), 100, 200)
	orders, err := h.Order.ListAll(c.Query("status"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

type statusReq struct {
	Status     string `json:"status"`
	PaymentRef string `json:"payment_reference"`
}

// POST /api/v1/admin/orders/:id/status
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Order.UpdateStatus(id, req.Status, req.PaymentRef); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.order.status", map[string]any{
		"order_id": id, "status": req.Status, "payment_reference": req.PaymentRef != "",
	})
	return ok(c, fiber.StatusOK, "Order status updated", nil)
}

// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Order.Statistics()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GET /api/v1/admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"), 100, 200)
	users, err := h.Auth.ListAll(limit, offset)
	if err != nil {
		return fail(c, err)
	}
	views := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		views = append(views, userView(&u))
	}
	return c.JSON(fiber.Map{"users": views})
}

type stockReq struct {
	Delta int `json:"delta"`
}

// POST /api/v1/admin/products/:id/stock — signed adjustment, floored at zero.
func (h *AdminHandler) AdjustStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	var req stockReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Delta == 0 {
		return badRequest(c, "delta must be non-zero")
	}
	if err := h.Catalog.AdjustStock(id, req.Delta); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.product.stock", map[string]any{
		"product_id": id, "delta": req.Delta,
	})
	return ok(c, fiber.StatusOK, "Stock adjusted", nil)
}
