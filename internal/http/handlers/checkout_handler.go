package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"aolua/internal/config"
	"aolua/internal/domain"
	applog "aolua/internal/log"
	"aolua/internal/repos"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var vld = validator.New()

type CheckoutHandler struct {
	Checkout *services.CheckoutService
	Coupons  *services.CouponService
	Shipping *services.ShippingService
	Cart     *services.CartService
	Addrs    *repos.AddressRepo
	Cfg      config.Config
}

type checkoutPayload struct {
	AddressID  string `json:"addressId" validate:"required,max=64"`
	CouponCode string `json:"couponCode" validate:"omitempty,max=32"`
	Payment    string `json:"paymentMethod" validate:"omitempty,oneof=COD cod"`
	Note       string `json:"note" validate:"omitempty,max=500"`
}

// POST /api/checkout
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Vui lòng đăng nhập")
	}

	var body checkoutPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"endpoint": "checkout"})
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}

	res, err := h.Checkout.Place(services.CheckoutInput{
		UserID:     u.ID,
		AddressID:  body.AddressID,
		CouponCode: body.CouponCode,
		Payment:    body.Payment,
		Note:       body.Note,
	})
	if err != nil {
		var stockErr *services.StockError
		switch {
		case errors.Is(err, services.ErrInvalidAddress):
			return jsonError(c, fiber.StatusBadRequest, "Địa chỉ không hợp lệ")
		case errors.Is(err, services.ErrCartEmpty):
			return jsonError(c, fiber.StatusBadRequest, "Giỏ hàng trống")
		case errors.As(err, &stockErr):
			return jsonError(c, fiber.StatusBadRequest,
				"Sản phẩm "+stockErr.ProductName+" ("+stockErr.SKU+") không đủ hàng, chỉ còn "+strconv.Itoa(stockErr.Available))
		}
		// Mid-transaction failures roll back and surface generically.
		applog.Error(c, "checkout.fail", err, map[string]any{"user": u.ID})
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tạo đơn hàng")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.OrderID, "order_number": res.OrderNumber, "total": res.Total,
	})
	return c.JSON(fiber.Map{
		"success": true,
		"order": fiber.Map{
			"id":          res.OrderID,
			"orderNumber": res.OrderNumber,
			"total":       res.Total,
		},
	})
}

// POST /api/coupons/validate  {code, subtotal} — read-only preview.
func (h *CheckoutHandler) ValidateCoupon(c *fiber.Ctx) error {
	var body struct {
		Code     string `json:"code"`
		Subtotal int64  `json:"subtotal"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	code, ok := validate.CouponCode(body.Code)
	if !ok {
		return c.JSON(fiber.Map{"valid": false, "error": "Mã giảm giá không hợp lệ"})
	}
	cp, discount, err := h.Coupons.Validate(code, body.Subtotal, time.Now())
	if err != nil {
		return c.JSON(fiber.Map{"valid": false, "error": couponMessage(err)})
	}
	return c.JSON(fiber.Map{
		"valid":    true,
		"discount": discount,
		"coupon": fiber.Map{
			"code":  cp.Code,
			"type":  cp.Type,
			"value": cp.Value,
		},
	})
}

// GET /api/shipping?city=&subtotal=
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	city, ok := validate.City(c.Query("city"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Thiếu thành phố giao hàng")
	}
	subtotal := int64(c.QueryInt("subtotal", 0))
	fee, err := h.Shipping.Fee(city, subtotal)
	if err != nil {
		applog.Error(c, "shipping.quote.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tính phí vận chuyển")
	}
	return c.JSON(fiber.Map{"fee": fee})
}

// GET /checkout — server-rendered checkout page.
func (h *CheckoutHandler) Page(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	cv, err := h.Cart.View(services.Identity{UserID: u.ID})
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải giỏ hàng"})
	}
	addrs, _ := h.Addrs.ListByUser(u.ID)
	return render(c, "checkout", fiber.Map{"Cart": cv, "Addresses": addrs})
}

type addressPayload struct {
	Recipient string `json:"recipient" validate:"required,max=80"`
	Phone     string `json:"phone" validate:"required,max=15"`
	Line1     string `json:"line1" validate:"required,max=200"`
	Ward      string `json:"ward" validate:"omitempty,max=80"`
	District  string `json:"district" validate:"omitempty,max=80"`
	City      string `json:"city" validate:"required,max=80"`
	IsDefault bool   `json:"isDefault"`
}

// POST /api/addresses
func (h *CheckoutHandler) CreateAddress(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	var body addressPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	phone, ok := validate.Phone(body.Phone)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Số điện thoại không hợp lệ")
	}
	addr := domain.Address{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Recipient: strings.TrimSpace(body.Recipient),
		Phone:     phone,
		Line1:     strings.TrimSpace(body.Line1),
		Ward:      strings.TrimSpace(body.Ward),
		District:  strings.TrimSpace(body.District),
		City:      strings.TrimSpace(body.City),
		IsDefault: body.IsDefault,
	}
	if err := h.Addrs.Create(&addr); err != nil {
		applog.Error(c, "addresses.create.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể lưu địa chỉ")
	}
	applog.Audit(c, "addresses.create", map[string]any{"address_id": addr.ID})
	return c.JSON(fiber.Map{"success": true, "address": addr})
}

// GET /api/addresses
func (h *CheckoutHandler) ListAddresses(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	addrs, err := h.Addrs.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "addresses.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải địa chỉ")
	}
	return c.JSON(fiber.Map{"addresses": addrs})
}

// DELETE /api/addresses/:id
func (h *CheckoutHandler) DeleteAddress(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Địa chỉ không tồn tại")
	}
	if err := h.Addrs.Delete(id, u.ID); err != nil {
		applog.Error(c, "addresses.delete.fail", err, map[string]any{"address_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "Không thể xóa địa chỉ")
	}
	applog.Audit(c, "addresses.delete", map[string]any{"address_id": id})
	return c.JSON(fiber.Map{"success": true})
}

func couponMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrCouponNotFound):
		return "Mã giảm giá không tồn tại"
	case errors.Is(err, domain.ErrCouponInactive):
		return "Mã giảm giá không còn hiệu lực"
	case errors.Is(err, domain.ErrCouponNotStarted):
		return "Mã giảm giá chưa bắt đầu"
	case errors.Is(err, domain.ErrCouponExpired):
		return "Mã giảm giá đã hết hạn"
	case errors.Is(err, domain.ErrCouponExhausted):
		return "Mã giảm giá đã hết lượt sử dụng"
	case errors.Is(err, domain.ErrCouponMinOrder):
		return "Đơn hàng chưa đạt giá trị tối thiểu"
	}
	return "Mã giảm giá không hợp lệ"
}
