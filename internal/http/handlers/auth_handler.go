package handlers

import (
	"strings"
	"time"

	"aolua/internal/log"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "login", fiber.Map{"Err": "", "CSRFToken": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Email hoặc mật khẩu không đúng", "CSRFToken": c.Cookies("csrf_")})
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Email hoặc mật khẩu không đúng", "CSRFToken": c.Cookies("csrf_")})
	}

	// The guest cart, if any, merges into the user cart on success.
	_, err := h.Auth.Login(sid, c.Cookies(guestCartCookie), email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Email hoặc mật khẩu không đúng", "CSRFToken": c.Cookies("csrf_")})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	email, okE := validate.Email(c.FormValue("email"))
	phone, okP := "", true
	if raw := strings.TrimSpace(c.FormValue("phone")); raw != "" {
		phone, okP = validate.Phone(raw)
	}
	name := c.FormValue("name")
	pass := c.FormValue("password")
	if !okE || !okP || name == "" || !validate.Password(pass) {
		log.Security(c, "auth.register.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Thông tin đăng ký không hợp lệ", "CSRFToken": c.Cookies("csrf_")})
	}
	u, err := h.Auth.Register(email, name, phone, pass)
	if err != nil {
		msg := "Không thể đăng ký, vui lòng thử lại"
		if err == services.ErrEmailTaken {
			msg = "Email đã được đăng ký"
		}
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": msg, "CSRFToken": c.Cookies("csrf_")})
	}
	sid := ensureSID(c)
	_ = h.Auth.Users.BindSession(sid, u.ID)
	log.Audit(c, "auth.register", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
