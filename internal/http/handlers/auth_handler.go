package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chronoworks/internal/domain"
	applog "chronoworks/internal/log"
	"chronoworks/internal/services"
	"chronoworks/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func userView(u *domain.User) fiber.Map {
	return fiber.Map{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"full_name":  u.FullName,
		"is_admin":   u.Admin,
		"created_at": u.CreatedAt,
	}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	username, okU := validate.Username(req.Username)
	email, okE := validate.Email(req.Email)
	if !okU || !okE || !validate.Password(req.Password) {
		applog.Security(c, "auth.register.fail", map[string]any{"reason": "bad_input"})
		return badRequest(c, "username, valid email, and a password of 8-72 characters are required")
	}

	u, err := h.Auth.Register(username, email, req.Password, req.FullName)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"username": username})
		return fail(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusCreated, "User registered successfully", fiber.Map{"user": userView(u)})
}

type loginReq struct {
	Login    string `json:"login"` // username or email
	Password string `json:"password"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.Auth.Authenticate(req.Login, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"login": req.Login})
		return fail(c, err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, "Authentication successful", fiber.Map{"user": userView(u)})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(userView(currentUser(c)))
}

type profileReq struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// PUT /api/v1/auth/me
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email != nil {
		email, okE := validate.Email(*req.Email)
		if !okE {
			return badRequest(c, "invalid email")
		}
		req.Email = &email
	}
	u, err := h.Auth.UpdateProfile(currentUser(c).ID, req.Email, req.FullName)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.profile.update", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": userView(u)})
}

type passwordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PUT /api/v1/auth/me/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req passwordReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !validate.Password(req.NewPassword) {
		return badRequest(c, "new password must be 8-72 characters")
	}
	if err := h.Auth.ChangePassword(currentUser(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		applog.Security(c, "auth.password.fail", nil)
		return fail(c, err)
	}
	applog.Audit(c, "auth.password.change", nil)
	return ok(c, fiber.StatusOK, "Password changed successfully", nil)
}
