package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"chronoworks/internal/domain"
	applog "chronoworks/internal/log"
)

// ok wraps a mutating call's result in the {success, message, ...} envelope.
func ok(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// fail maps the service error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an unexpected storage fault: logged, returned as a generic
// 500 without leaking internals.
func fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Cart validation failed",
			"issues":  verr.Issues,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidStatus):
		status = fiber.StatusBadRequest
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		msg = "Something went wrong. Please try again."
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": message})
}
