package handlers

import (
	"errors"
	"time"

	"aolua/internal/config"
	"aolua/internal/domain"
	applog "aolua/internal/log"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const guestCartCookie = "guest_cart_id"

type CartHandler struct {
	Cart *services.CartService
	Cfg  config.Config
}

// identity resolves the caller: a logged-in user wins; otherwise a guest
// token, minted and set as a 30-day HTTP-only cookie on first contact.
func (h *CartHandler) identity(c *fiber.Ctx) services.Identity {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return services.Identity{UserID: u.ID}
	}
	tok := c.Cookies(guestCartCookie)
	if tok == "" {
		tok = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     guestCartCookie,
			Value:    tok,
			Path:     "/",
			MaxAge:   int((30 * 24 * time.Hour).Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   h.Cfg.CookieSecure,
		})
	}
	return services.Identity{GuestToken: tok}
}

type cartItemJSON struct {
	ItemID      string   `json:"itemId"`
	VariantID   string   `json:"variantId"`
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	SKU         string   `json:"sku"`
	Color       string   `json:"color"`
	Size        string   `json:"size"`
	Images      []string `json:"images"`
	Quantity    int      `json:"quantity"`
	UnitPrice   int64    `json:"unitPrice"`
	LineTotal   int64    `json:"lineTotal"`
}

func cartJSON(cv services.CartView) fiber.Map {
	items := make([]cartItemJSON, 0, len(cv.Items))
	for _, it := range cv.Items {
		items = append(items, cartItemJSON{
			ItemID:      it.ItemID,
			VariantID:   it.VariantID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Color:       it.Color,
			Size:        it.Size,
			Images:      it.Images,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return fiber.Map{"cart": fiber.Map{
		"id":       cv.Cart.ID,
		"items":    items,
		"subtotal": cv.Subtotal,
	}}
}

func (h *CartHandler) respond(c *fiber.Ctx, cv services.CartView, err error) error {
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "Vui lòng đăng nhập lại")
		}
		applog.Error(c, "cart.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải giỏ hàng")
	}
	return c.JSON(cartJSON(cv))
}

// GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cv, err := h.Cart.View(h.identity(c))
	return h.respond(c, cv, err)
}

// POST /api/cart  {variantId, quantity}
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body struct {
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if _, ok := validate.ID(body.VariantID); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Thiếu mã sản phẩm")
	}
	cv, err := h.Cart.AddItem(h.identity(c), body.VariantID, body.Quantity)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		applog.Error(c, "cart.add.fail", err, map[string]any{"variant": body.VariantID})
		return jsonError(c, fiber.StatusBadRequest, "Không thể thêm sản phẩm vào giỏ")
	}
	return h.respond(c, cv, err)
}

// PUT /api/cart  {itemId, quantity} — quantity <= 0 removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var body struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if _, ok := validate.ID(body.ItemID); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Thiếu mã dòng hàng")
	}
	cv, err := h.Cart.UpdateQuantity(h.identity(c), body.ItemID, body.Quantity)
	return h.respond(c, cv, err)
}

// DELETE /api/cart?itemId=
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Query("itemId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Thiếu mã dòng hàng")
	}
	cv, err := h.Cart.RemoveItem(h.identity(c), itemID)
	return h.respond(c, cv, err)
}

// GET /cart — server-rendered cart page.
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(h.identity(c))
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải giỏ hàng"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}
