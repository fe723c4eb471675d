package handlers

import (
	applog "aolua/internal/log"
	"aolua/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser guards server-rendered pages; unauthenticated visitors are
// sent to the login form.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireUserAPI guards JSON routes; the response is a uniform 401.
func RequireUserAPI(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				return c.Next()
			}
		}
		return jsonError(c, fiber.StatusUnauthorized, "Vui lòng đăng nhập")
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Không có quyền truy cập"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireAdminAPI(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil && u.Role == "ADMIN" {
				c.Locals("user", u)
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
		return jsonError(c, fiber.StatusUnauthorized, "Vui lòng đăng nhập")
	}
}
