package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "chronoworks/internal/log"
	"chronoworks/internal/services"
	"chronoworks/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// POST /api/v1/cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return badRequest(c, "missing product_id")
	}
	if err := h.Cart.Add(currentUser(c).ID, pid, req.Quantity); err != nil {
		return fail(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": pid, "qty": req.Quantity})
	return ok(c, fiber.StatusOK, "Item added to cart", nil)
}

// PUT /api/v1/cart/items/:productId
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.Params("productId"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Cart.SetQuantity(currentUser(c).ID, pid, req.Quantity); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Cart updated", nil)
}

// DELETE /api/v1/cart/items/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.Params("productId"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	if err := h.Cart.Remove(currentUser(c).ID, pid); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Item removed from cart", nil)
}

// GET /api/v1/cart
func (h *CartHandler) List(c *fiber.Ctx) error {
	items, err := h.Cart.List(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// GET /api/v1/cart/summary
func (h *CartHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.Cart.Summary(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sum)
}

// GET /api/v1/cart/count
func (h *CartHandler) Count(c *fiber.Ctx) error {
	n, err := h.Cart.Count(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(currentUser(c).ID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Cart cleared", nil)
}
