package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/crypto/bcrypt"

	"aolua/internal/http/handlers"
	"aolua/internal/repos"
	"aolua/internal/services"
)

func TestSeededPasswordsAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Matkhau1!") {
			t.Fatal("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Matkhau1!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}
	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	respForm, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookieValue(respForm, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	post := func(password string) *http.Response {
		form := strings.NewReader("csrf=" + csrfTok + "&email=lan@aolua.test&password=" + password)
		req := httptest.NewRequest("POST", "/login", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := post("saimatkhau9"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if resp := post("Matkhau1!"); resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	// Two attempts spent; the limiter takes the third.
	if resp := post("saimatkhau9"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestLoginMergesGuestCart(t *testing.T) {
	app, db := newTestApp(t)
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}

	// Guest shops anonymously first.
	resp, err := app.Test(jsonReq("POST", "/api/cart", `{"variantId":"v-ad-do-s","quantity":1}`))
	if err != nil {
		t.Fatal(err)
	}
	tok := cookieValue(resp, "guest_cart_id")
	if tok == "" {
		t.Fatal("guest cookie missing")
	}

	if _, err := authSvc.Login("sid-lan", tok, "lan@aolua.test", "Matkhau1!"); err != nil {
		t.Fatal(err)
	}

	// The guest line now belongs to the user's cart.
	req := jsonReq("GET", "/api/cart", "")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-lan"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	cart := decode(t, resp)["cart"].(map[string]any)
	if items := cart["items"].([]any); len(items) != 1 {
		t.Fatalf("guest cart not merged, got %d lines", len(items))
	}
}
