package handlers

import (
	"errors"

	"aolua/internal/domain"
	applog "aolua/internal/log"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// POST /api/products/:id/reviews  {rating, comment?}
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Sản phẩm không tồn tại")
	}
	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	rv, err := h.Reviews.Submit(u.ID, productID, body.Rating, body.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			return jsonError(c, fiber.StatusBadRequest, "Điểm đánh giá phải từ 1 đến 5")
		case errors.Is(err, services.ErrNotPurchased):
			return jsonError(c, fiber.StatusBadRequest, "Chỉ đánh giá sản phẩm đã mua")
		}
		applog.Error(c, "reviews.submit.fail", err, map[string]any{"product_id": productID})
		return jsonError(c, fiber.StatusBadRequest, "Không thể gửi đánh giá")
	}
	applog.Audit(c, "reviews.submit", map[string]any{"review_id": rv.ID, "product_id": productID})
	return c.JSON(fiber.Map{"success": true, "review": rv})
}
