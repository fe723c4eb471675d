package handlers

import (
	"strings"

	"aolua/internal/log"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải trang chủ"})
	}
	return render(c, "home", fiber.Map{"Categories": cats})
}

func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Danh mục không tồn tại"})
	}
	products, err := h.Catalog.ListProductsByCategory(catID, c.QueryInt("page", 1), 12)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải danh mục"})
	}
	return render(c, "category", fiber.Map{"CategoryID": catID, "Products": products})
}

func (h *CatalogHandler) ProductDetail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Sản phẩm không còn kinh doanh"})
	}
	view, err := h.Catalog.GetProduct(id)
	if err != nil || view.Product.ID == "" {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Sản phẩm không còn kinh doanh"})
	}
	return render(c, "product", fiber.Map{"P": view})
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(q) > 50 {
		q = q[:50]
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Q": q, "Products": []any{}, "Count": 0, "Err": "Danh mục không hợp lệ",
			})
		}
	}

	products, err := h.Catalog.Search(q, category, c.QueryInt("page", 1), 20)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải kết quả, vui lòng thử lại"})
	}

	return render(c, "search", fiber.Map{
		"Q": q, "CategoryID": category,
		"Products": products, "Count": len(products),
	})
}
