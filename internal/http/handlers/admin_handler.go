package handlers

import (
	"errors"
	"strings"

	"aolua/internal/domain"
	applog "aolua/internal/log"
	"aolua/internal/repos"
	"aolua/internal/services"
	"aolua/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Orders   *services.OrderService
	OrderRpo *repos.OrderRepo
	Inv      *repos.InventoryRepo
	Coupons  *repos.CouponRepo
	Prods    *repos.ProductRepo
	Cats     *repos.CategoryRepo
	Zones    *repos.ShippingRepo
	Returns  *services.ReturnService
	Reviews  *services.ReviewService
	Reports  *services.ReportService
}

// ---------- Pages ----------

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	sum, err := h.Reports.Summary(30, 3)
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải bảng điều khiển"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Summary": sum})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.OrderRpo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải đơn hàng"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// GET /admin/inventory
func (h *AdminHandler) InventoryPage(c *fiber.Ctx) error {
	rows, err := h.Inv.ListAll()
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Không thể tải kho hàng"})
	}
	return render(c, "admin_inventory", fiber.Map{"Rows": rows})
}

// ---------- Order lifecycle ----------

// PATCH /api/admin/orders/:id  {status, note?}
// Drives the status machine; illegal moves (including anything out of a
// terminal state) are rejected here, not just hidden in the UI.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
	}
	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	next, err := domain.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Trạng thái không hợp lệ")
	}
	if err := h.Orders.Transition(id, next, u.ID, body.Note); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
		case errors.Is(err, domain.ErrInvalidTransition):
			return jsonError(c, fiber.StatusBadRequest, "Không thể chuyển trạng thái này")
		}
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "Không thể cập nhật đơn hàng")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": next})
	return c.JSON(fiber.Map{"success": true, "status": next})
}

// PUT /api/admin/orders/:id/note  {note}
// Internal annotation on the order itself, separate from the per-transition
// history notes.
func (h *AdminHandler) SetOrderNote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
	}
	var body struct {
		Note string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Note) > 500 {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if _, err := h.Orders.Get(id, "", true); err != nil {
		return jsonError(c, fiber.StatusNotFound, "Đơn hàng không tồn tại")
	}
	if err := h.OrderRpo.SetAdminNote(id, strings.TrimSpace(body.Note)); err != nil {
		applog.Error(c, "admin.orders.note.fail", err, map[string]any{"order_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "Không thể lưu ghi chú")
	}
	applog.Audit(c, "admin.orders.note", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// ---------- Inventory ----------

// POST /api/admin/inventory  {variantId, quantity}
func (h *AdminHandler) UpsertInventory(c *fiber.Ctx) error {
	var body struct {
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if _, ok := validate.ID(body.VariantID); !ok || body.Quantity < 0 {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := h.Inv.UpsertQty(body.VariantID, body.Quantity); err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"variant": body.VariantID})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật tồn kho")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"variant": body.VariantID, "qty": body.Quantity})
	return c.JSON(fiber.Map{"success": true})
}

// ---------- Catalog ----------

type categoryPayload struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

// POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var body categoryPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	cat := domain.Category{ID: uuid.NewString(), Name: body.Name, Slug: body.Slug}
	if err := h.Cats.Create(&cat); err != nil {
		applog.Error(c, "admin.categories.create.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Không thể tạo danh mục")
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID})
	return c.JSON(fiber.Map{"success": true, "id": cat.ID})
}

// PUT /api/admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Danh mục không tồn tại")
	}
	var body categoryPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	cat, err := h.Cats.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Danh mục không tồn tại")
	}
	cat.Name = body.Name
	cat.Slug = body.Slug
	if err := h.Cats.Update(&cat); err != nil {
		applog.Error(c, "admin.categories.update.fail", err, map[string]any{"category_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật danh mục")
	}
	applog.Audit(c, "admin.categories.update", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"success": true})
}

type productPayload struct {
	CategoryID  string   `json:"categoryId" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Tags        []string `json:"tags" validate:"max=20"`
	Active      *bool    `json:"active"`
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var body productPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  body.CategoryID,
		Name:        body.Name,
		Description: body.Description,
		Tags:        body.Tags,
		Active:      body.Active == nil || *body.Active,
	}
	if err := h.Prods.Create(&p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Không thể tạo sản phẩm")
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID})
	return c.JSON(fiber.Map{"success": true, "id": p.ID})
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Sản phẩm không tồn tại")
	}
	var body productPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Sản phẩm không tồn tại")
	}
	p.CategoryID = body.CategoryID
	p.Name = body.Name
	p.Description = body.Description
	p.Tags = body.Tags
	if body.Active != nil {
		p.Active = *body.Active
	}
	if err := h.Prods.Update(&p); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật sản phẩm")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// DELETE /api/admin/products/:id — refused while order history references
// any of the product's variants.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Sản phẩm không tồn tại")
	}
	if err := h.Prods.Delete(id); err != nil {
		if errors.Is(err, repos.ErrVariantInUse) {
			return jsonError(c, fiber.StatusBadRequest, "Sản phẩm đã có đơn hàng, không thể xóa")
		}
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể xóa sản phẩm")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true})
}

type variantPayload struct {
	SKU       string   `json:"sku" validate:"required,max=32"`
	Color     string   `json:"color" validate:"max=50"`
	Size      string   `json:"size" validate:"max=20"`
	Material  string   `json:"material" validate:"max=100"`
	Images    []string `json:"images" validate:"max=10"`
	BasePrice int64    `json:"basePrice" validate:"gte=0"`
	SalePrice int64    `json:"salePrice" validate:"gte=0"`
	SaleStart string   `json:"saleStart"`
	SaleEnd   string   `json:"saleEnd"`
	Stock     int      `json:"stock" validate:"gte=0"`
}

// POST /api/admin/products/:id/variants
func (h *AdminHandler) CreateVariant(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Sản phẩm không tồn tại")
	}
	var body variantPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	sku, ok := validate.SKU(body.SKU)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Mã SKU không hợp lệ")
	}
	v := domain.Variant{
		ID:        uuid.NewString(),
		ProductID: productID,
		SKU:       sku,
		Color:     body.Color,
		Size:      body.Size,
		Material:  body.Material,
		Images:    body.Images,
		Active:    true,
	}
	price := domain.Pricing{
		BasePrice: body.BasePrice, SalePrice: body.SalePrice,
		SaleStart: body.SaleStart, SaleEnd: body.SaleEnd,
	}
	if err := h.Prods.CreateVariant(&v, price, body.Stock); err != nil {
		if errors.Is(err, repos.ErrSKUConflict) {
			return jsonError(c, fiber.StatusBadRequest, "SKU đã tồn tại: "+sku)
		}
		applog.Error(c, "admin.variants.create.fail", err, map[string]any{"product_id": productID})
		return jsonError(c, fiber.StatusBadRequest, "Không thể tạo phân loại")
	}
	applog.Audit(c, "admin.variants.create", map[string]any{"variant_id": v.ID, "sku": sku})
	return c.JSON(fiber.Map{"success": true, "id": v.ID})
}

// PUT /api/admin/variants/:id
func (h *AdminHandler) UpdateVariant(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Phân loại không tồn tại")
	}
	var body variantPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	sku, ok := validate.SKU(body.SKU)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Mã SKU không hợp lệ")
	}
	d, err := h.Prods.GetVariant(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Phân loại không tồn tại")
	}
	v := d.Variant
	v.SKU = sku
	v.Color = body.Color
	v.Size = body.Size
	v.Material = body.Material
	v.Images = body.Images
	price := domain.Pricing{
		VariantID: id, BasePrice: body.BasePrice, SalePrice: body.SalePrice,
		SaleStart: body.SaleStart, SaleEnd: body.SaleEnd,
	}
	if err := h.Prods.UpdateVariant(&v, price); err != nil {
		if errors.Is(err, repos.ErrSKUConflict) {
			return jsonError(c, fiber.StatusBadRequest, "SKU đã tồn tại: "+sku)
		}
		applog.Error(c, "admin.variants.update.fail", err, map[string]any{"variant_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật phân loại")
	}
	applog.Audit(c, "admin.variants.update", map[string]any{"variant_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// ---------- Coupons ----------

type couponPayload struct {
	Code        string `json:"code" validate:"required,max=32"`
	Type        string `json:"type" validate:"required,oneof=PERCENTAGE FIXED"`
	Value       int64  `json:"value" validate:"gte=0"`
	MinOrder    int64  `json:"minOrder" validate:"gte=0"`
	MaxDiscount int64  `json:"maxDiscount" validate:"gte=0"`
	UsageLimit  int    `json:"usageLimit" validate:"gte=0"`
	Active      *bool  `json:"active"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// GET /api/admin/coupons
func (h *AdminHandler) ListCoupons(c *fiber.Ctx) error {
	list, err := h.Coupons.List()
	if err != nil {
		applog.Error(c, "admin.coupons.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải mã giảm giá")
	}
	return c.JSON(fiber.Map{"coupons": list})
}

// POST /api/admin/coupons
func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	var body couponPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	code, ok := validate.CouponCode(body.Code)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Mã giảm giá không hợp lệ")
	}
	cp := domain.Coupon{
		ID: uuid.NewString(), Code: code, Type: body.Type, Value: body.Value,
		MinOrder: body.MinOrder, MaxDiscount: body.MaxDiscount,
		UsageLimit: body.UsageLimit, Active: body.Active == nil || *body.Active,
		StartDate: body.StartDate, EndDate: body.EndDate,
	}
	if err := h.Coupons.Create(&cp); err != nil {
		applog.Error(c, "admin.coupons.create.fail", err, map[string]any{"code": code})
		return jsonError(c, fiber.StatusBadRequest, "Không thể tạo mã giảm giá")
	}
	applog.Audit(c, "admin.coupons.create", map[string]any{"coupon_id": cp.ID, "code": code})
	return c.JSON(fiber.Map{"success": true, "id": cp.ID})
}

// PUT /api/admin/coupons/:id
func (h *AdminHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Mã giảm giá không tồn tại")
	}
	var body couponPayload
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	cp, err := h.Coupons.ByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Mã giảm giá không tồn tại")
	}
	code, ok := validate.CouponCode(body.Code)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Mã giảm giá không hợp lệ")
	}
	cp.Code = code
	cp.Type = body.Type
	cp.Value = body.Value
	cp.MinOrder = body.MinOrder
	cp.MaxDiscount = body.MaxDiscount
	cp.UsageLimit = body.UsageLimit
	if body.Active != nil {
		cp.Active = *body.Active
	}
	cp.StartDate = body.StartDate
	cp.EndDate = body.EndDate
	if err := h.Coupons.Update(&cp); err != nil {
		applog.Error(c, "admin.coupons.update.fail", err, map[string]any{"coupon_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật mã giảm giá")
	}
	applog.Audit(c, "admin.coupons.update", map[string]any{"coupon_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// ---------- Returns & reviews ----------

// PATCH /api/admin/returns/:id  {status, refundAmount?, note?}
func (h *AdminHandler) DecideReturn(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Yêu cầu không tồn tại")
	}
	var body struct {
		Status       string `json:"status"`
		RefundAmount int64  `json:"refundAmount"`
		Note         string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	next, err := domain.ParseReturnStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Trạng thái không hợp lệ")
	}
	if err := h.Returns.Decide(id, next, body.RefundAmount, body.Note); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return jsonError(c, fiber.StatusBadRequest, "Không thể chuyển trạng thái này")
		}
		applog.Error(c, "admin.returns.decide.fail", err, map[string]any{"return_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật yêu cầu")
	}
	applog.Audit(c, "admin.returns.decide", map[string]any{"return_id": id, "status": next})
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/admin/returns/pending
func (h *AdminHandler) PendingReturns(c *fiber.Ctx) error {
	rets, err := h.Returns.Pending()
	if err != nil {
		applog.Error(c, "admin.returns.pending.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải yêu cầu đổi trả")
	}
	return c.JSON(fiber.Map{"returns": rets})
}

// GET /api/admin/reviews/pending
func (h *AdminHandler) PendingReviews(c *fiber.Ctx) error {
	rows, err := h.Reviews.Pending()
	if err != nil {
		applog.Error(c, "admin.reviews.pending.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải đánh giá")
	}
	return c.JSON(fiber.Map{"reviews": rows})
}

// PATCH /api/admin/reviews/:id  {approved, response?}
func (h *AdminHandler) ModerateReview(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Đánh giá không tồn tại")
	}
	var body struct {
		Approved bool   `json:"approved"`
		Response string `json:"response"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := h.Reviews.Moderate(id, body.Approved, body.Response); err != nil {
		applog.Error(c, "admin.reviews.moderate.fail", err, map[string]any{"review_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể cập nhật đánh giá")
	}
	applog.Audit(c, "admin.reviews.moderate", map[string]any{"review_id": id, "approved": body.Approved})
	return c.JSON(fiber.Map{"success": true})
}

// ---------- Shipping zones & reports ----------

// PUT /api/admin/shipping-zones/:id
func (h *AdminHandler) UpsertZone(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Mã vùng không hợp lệ")
	}
	var body struct {
		Name          string   `json:"name" validate:"required,max=100"`
		Cities        []string `json:"cities" validate:"required,min=1"`
		Fee           int64    `json:"fee" validate:"gte=0"`
		FreeThreshold int64    `json:"freeThreshold" validate:"gte=0"`
		Position      int      `json:"position" validate:"gte=0"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if err := vld.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	z := domain.ShippingZone{
		ID: id, Name: body.Name, Cities: body.Cities,
		Fee: body.Fee, FreeThreshold: body.FreeThreshold, Position: body.Position,
	}
	if err := h.Zones.Upsert(&z); err != nil {
		applog.Error(c, "admin.zones.save.fail", err, map[string]any{"zone_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Không thể lưu vùng vận chuyển")
	}
	applog.Audit(c, "admin.zones.save", map[string]any{"zone_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// DELETE /api/admin/shipping-zones/:id
func (h *AdminHandler) DeleteZone(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Mã vùng không hợp lệ")
	}
	if err := h.Zones.Delete(id); err != nil {
		applog.Error(c, "admin.zones.delete.fail", err, map[string]any{"zone_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "Không thể xóa vùng vận chuyển")
	}
	applog.Audit(c, "admin.zones.delete", map[string]any{"zone_id": id})
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/admin/reports/summary
func (h *AdminHandler) ReportSummary(c *fiber.Ctx) error {
	sum, err := h.Reports.Summary(c.QueryInt("days", 30), c.QueryInt("lowStock", 3))
	if err != nil {
		applog.Error(c, "admin.reports.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Không thể tải báo cáo")
	}
	return c.JSON(sum)
}
