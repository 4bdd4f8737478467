package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chronoworks/internal/domain"
	applog "chronoworks/internal/log"
	"chronoworks/internal/repos"
	"chronoworks/internal/services"
	"chronoworks/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type checkoutReq struct {
	Shipping      domain.ShippingInfo `json:"shipping"`
	PaymentMethod string              `json:"payment_method"`
}

func orderView(o domain.Order, lines []repos.OrderLineRow) fiber.Map {
	return fiber.Map{
		"id":                o.ID,
		"order_number":      o.OrderNumber,
		"user_id":           o.UserID,
		"total_amount":      o.TotalAmount,
		"tax_amount":        o.TaxAmount,
		"shipping_amount":   o.ShippingAmount,
		"discount_amount":   o.DiscountAmount,
		"status":            o.Status,
		"payment_status":    o.PaymentStatus,
		"payment_method":    o.PaymentMethod,
		"payment_reference": o.PaymentRef,
		"shipping_info":     o.ShippingInfo,
		"items":             lines,
		"created_at":        o.CreatedAt,
		"updated_at":        o.UpdatedAt,
		"shipped_at":        o.ShippedAt,
		"delivered_at":      o.DeliveredAt,
	}
}

// POST /api/v1/orders — checkout the caller's cart.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req checkoutReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Shipping.Email != "" {
		if _, okE := validate.Email(req.Shipping.Email); !okE {
			return badRequest(c, "invalid shipping email")
		}
	}

	o, err := h.Order.CreateFromCart(currentUser(c).ID, req.Shipping, req.PaymentMethod)
	if err != nil {
		applog.Security(c, "order.create.fail", map[string]any{"error": err.Error()})
		return fail(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id": o.ID, "order_number": o.OrderNumber, "total": o.TotalAmount,
	})
	return ok(c, fiber.StatusCreated, "Order created successfully", fiber.Map{
		"order": fiber.Map{
			"id":           o.ID,
			"order_number": o.OrderNumber,
			"total_amount": o.TotalAmount,
			"status":       o.Status,
		},
	})
}

// GET /api/v1/orders — the caller's order history, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"), 50, 100)
	orders, err := h.Order.UserOrders(currentUser(c).ID, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// GET /api/v1/orders/:id — scoped to the caller unless they are an admin.
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	u := currentUser(c)
	scope := u.ID
	if u.Admin {
		scope = ""
	}
	o, lines, err := h.Order.GetByID(id, scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orderView(o, lines))
}

// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	u := currentUser(c)
	scope := u.ID
	if u.Admin {
		scope = ""
	}
	if err := h.Order.Cancel(id, scope); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": id})
	return ok(c, fiber.StatusOK, "Order cancelled successfully", nil)
}
