package handlers

import (
	"errors"

	"aolua/internal/domain"
	applog "aolua/internal/log"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders  *services.OrderService
	Returns *services.ReturnService
}

type orderJSON struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shippingFee"`
	Discount    int64  `json:"discount"`
	Total       int64  `json:"total"`
	CreatedAt   string `json:"createdAt"`
}

func toOrderJSON(o domain.Order) orderJSON {
	return orderJSON{
		ID: o.ID, OrderNumber: o.OrderNumber, Status: string(o.Status),
		Subtotal: o.Subtotal, ShippingFee: o.ShippingFee, Discount: o.Discount,
		Total: o.Total, CreatedAt: o.CreatedAt,
	}
}

// GET /api/orders — the caller's own orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	orders, err := h.Orders.ListForUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải đơn hàng")
	}
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	return c.JSON(fiber.Map{"orders": out})
}

// GET /api/orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
	}
	d, err := h.Orders.Get(id, u.ID, u.Role == "ADMIN")
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
			return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
		}
		applog.Error(c, "orders.detail.fail", err, map[string]any{"order_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải đơn hàng")
	}
	return c.JSON(fiber.Map{
		"order":   toOrderJSON(d.Order),
		"items":   d.Items,
		"history": d.History,
	})
}

// POST /api/returns  {orderId, reason, detail?, evidence?}
func (h *OrderHandler) SubmitReturn(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	var body struct {
		OrderID  string   `json:"orderId"`
		Reason   string   `json:"reason"`
		Detail   string   `json:"detail"`
		Evidence []string `json:"evidence"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	rr, err := h.Returns.Submit(u.ID, body.OrderID, body.Reason, body.Detail, body.Evidence)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
		case errors.Is(err, services.ErrReturnNotAllowed):
			return jsonError(c, fiber.StatusBadRequest, "Chỉ đổi trả đơn hàng đã giao")
		}
		applog.Error(c, "returns.submit.fail", err, map[string]any{"order_id": body.OrderID})
		return jsonError(c, fiber.StatusBadRequest, "Không thể gửi yêu cầu đổi trả")
	}
	applog.Audit(c, "returns.submit", map[string]any{"return_id": rr.ID, "order_id": rr.OrderID})
	return c.JSON(fiber.Map{"success": true, "return": rr})
}

// GET /api/returns
func (h *OrderHandler) ListReturns(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	rets, err := h.Returns.Mine(u.ID)
	if err != nil {
		applog.Error(c, "returns.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải yêu cầu đổi trả")
	}
	return c.JSON(fiber.Map{"returns": rets})
}

// GET /orders — server-rendered order history page.
func (h *OrderHandler) HistoryPage(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	orders, err := h.Orders.ListForUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải đơn hàng"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

// GET /order/:id — server-rendered order detail page.
func (h *OrderHandler) DetailPage(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Đơn hàng không tồn tại"})
	}
	d, err := h.Orders.Get(id, u.ID, u.Role == "ADMIN")
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Đơn hàng không tồn tại"})
	}
	return render(c, "order", fiber.Map{"Order": d.Order, "Items": d.Items, "History": d.History})
}
