package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"aolua/internal/config"
	"aolua/internal/http/handlers"
	"aolua/internal/repos"
	"aolua/internal/services"
)

// newTestApp wires the JSON API surface on a seeded in-memory database.
// Pages and csrf are out of scope here; the API rides cookies only.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{DefaultShipFee: 40000}
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}
	deps := handlers.NewDeps(db, cfg, authSvc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	api := app.Group("/api")
	api.Get("/cart", deps.CartHandler.Get)
	api.Post("/cart", deps.CartHandler.Add)
	api.Put("/cart", deps.CartHandler.Update)
	api.Delete("/cart", deps.CartHandler.Remove)
	api.Get("/shipping", deps.CheckoutHandler.Quote)
	api.Post("/coupons/validate", deps.CheckoutHandler.ValidateCoupon)

	userAPI := api.Group("", handlers.RequireUserAPI(authSvc))
	userAPI.Post("/checkout", deps.CheckoutHandler.Place)
	userAPI.Get("/orders", deps.OrderHandler.List)
	userAPI.Get("/orders/:id", deps.OrderHandler.Detail)

	adminAPI := app.Group("/api/admin", handlers.RequireAdminAPI(authSvc))
	adminAPI.Patch("/orders/:id", deps.AdminHandler.UpdateOrderStatus)

	return app, db
}

func loginAs(t *testing.T, db *sqlx.DB, sid, userID string) {
	t.Helper()
	if err := repos.NewUserRepo(db).BindSession(sid, userID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
}

func jsonReq(method, url, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestGuestGetsCartCookie(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("GET", "/api/cart", ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	tok := cookieValue(resp, "guest_cart_id")
	if tok == "" {
		t.Fatal("guest_cart_id cookie not issued")
	}

	// Reusing the token keeps the same cart across requests.
	req := jsonReq("POST", "/api/cart", `{"variantId":"v-dam-be-m","quantity":2}`)
	req.AddCookie(&http.Cookie{Name: "guest_cart_id", Value: tok})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body := decode(t, resp)
	cart := body["cart"].(map[string]any)
	if cart["subtotal"].(float64) != 1580000 {
		t.Fatalf("bad subtotal: %v", cart["subtotal"])
	}
	items := cart["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("want 1 line, got %d", len(items))
	}
}

func TestCheckoutRequiresLogin(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(jsonReq("POST", "/api/checkout", `{"addressId":"addr-lan-1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}

func TestCheckoutFlowOverAPI(t *testing.T) {
	app, db := newTestApp(t)
	loginAs(t, db, "sid-lan", "u-lan")

	add := jsonReq("POST", "/api/cart", `{"variantId":"v-dam-be-m","quantity":1}`)
	add.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	if resp, err := app.Test(add); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart failed: %v", err)
	}

	// Wrong address first: mapped to a Vietnamese 400.
	bad := jsonReq("POST", "/api/checkout", `{"addressId":"addr-cua-ai-do"}`)
	bad.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	resp, err := app.Test(bad)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for foreign address, got %d", resp.StatusCode)
	}
	if msg := decode(t, resp)["error"].(string); msg != "Địa chỉ không hợp lệ" {
		t.Fatalf("unexpected message: %q", msg)
	}

	good := jsonReq("POST", "/api/checkout", `{"addressId":"addr-lan-1","paymentMethod":"COD"}`)
	good.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	resp, err = app.Test(good)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	body := decode(t, resp)
	order := body["order"].(map[string]any)
	if !strings.HasPrefix(order["orderNumber"].(string), "DH") {
		t.Fatalf("bad order number: %v", order["orderNumber"])
	}
	// 790.000 subtotal, free shipping over 500.000 in Hà Nội.
	if order["total"].(float64) != 790000 {
		t.Fatalf("want total 790000, got %v", order["total"])
	}

	// The order shows up in the caller's history and detail.
	list := jsonReq("GET", "/api/orders", "")
	list.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	resp, err = app.Test(list)
	if err != nil {
		t.Fatal(err)
	}
	if orders := decode(t, resp)["orders"].([]any); len(orders) != 1 {
		t.Fatalf("want 1 order in history, got %d", len(orders))
	}

	// Another customer cannot read it.
	loginAs(t, db, "sid-minh", "u-minh")
	peek := jsonReq("GET", "/api/orders/"+order["id"].(string), "")
	peek.AddCookie(&http.Cookie{Name: "sid", Value: "sid-minh"})
	resp, err = app.Test(peek)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign order must 404, got %d", resp.StatusCode)
	}
}

func TestCouponValidateEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/coupons/validate", `{"code":"SALE10","subtotal":1000000}`))
	if err != nil {
		t.Fatal(err)
	}
	body := decode(t, resp)
	if body["valid"] != true || body["discount"].(float64) != 100000 {
		t.Fatalf("bad validation result: %v", body)
	}

	resp, err = app.Test(jsonReq("POST", "/api/coupons/validate", `{"code":"SALE10","subtotal":100000}`))
	if err != nil {
		t.Fatal(err)
	}
	body = decode(t, resp)
	if body["valid"] != false {
		t.Fatal("under-minimum order must be invalid")
	}
	if body["error"].(string) == "" {
		t.Fatal("rejection must carry a message")
	}
}

func TestShippingQuoteEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(jsonReq("GET", "/api/shipping?city=Hu%E1%BA%BF&subtotal=100000", ""))
	if err != nil {
		t.Fatal(err)
	}
	if fee := decode(t, resp)["fee"].(float64); fee != 30000 {
		t.Fatalf("want 30000 for Huế, got %v", fee)
	}
}

func TestAdminOrderStatusEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	loginAs(t, db, "sid-lan", "u-lan")
	loginAs(t, db, "sid-admin", "u-admin")

	add := jsonReq("POST", "/api/cart", `{"variantId":"v-dam-be-m","quantity":1}`)
	add.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	if _, err := app.Test(add); err != nil {
		t.Fatal(err)
	}
	place := jsonReq("POST", "/api/checkout", `{"addressId":"addr-lan-1"}`)
	place.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	resp, err := app.Test(place)
	if err != nil {
		t.Fatal(err)
	}
	orderID := decode(t, resp)["order"].(map[string]any)["id"].(string)

	// Customers cannot drive the machine.
	deny := jsonReq("PATCH", "/api/admin/orders/"+orderID, `{"status":"CONFIRMED"}`)
	deny.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	resp, err = app.Test(deny)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 for non-admin, got %d", resp.StatusCode)
	}

	ok := jsonReq("PATCH", "/api/admin/orders/"+orderID, `{"status":"CONFIRMED","note":"đã gọi xác nhận"}`)
	ok.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
	resp, err = app.Test(ok)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	// Skipping states is a client error, not a 500.
	skip := jsonReq("PATCH", "/api/admin/orders/"+orderID, `{"status":"DELIVERED"}`)
	skip.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
	resp, err = app.Test(skip)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for illegal transition, got %d", resp.StatusCode)
	}
}
