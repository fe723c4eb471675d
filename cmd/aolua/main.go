package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"aolua/internal/config"
	"aolua/internal/http/handlers"
	applog "aolua/internal/log"
	"aolua/internal/repos"
	"aolua/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Đã xảy ra lỗi. Vui lòng thử lại."})
			}
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Đã xảy ra lỗi. Vui lòng thử lại.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Đã xảy ra lỗi. Vui lòng thử lại.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		// JSON endpoints ride the sid cookie with SameSite, not form tokens
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Phiên làm việc không hợp lệ. Vui lòng tải lại trang."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Storefront pages
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.CatalogHandler.Search)
	app.Get("/category/:id", deps.CatalogHandler.Category)
	app.Get("/product", func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sản phẩm không còn kinh doanh"})
	})
	app.Get("/product/:id", deps.CatalogHandler.ProductDetail)
	app.Get("/cart", deps.CartHandler.View)
	app.Get("/checkout", handlers.RequireUser(authSvc), deps.CheckoutHandler.Page)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.HistoryPage)
	app.Get("/order/:id", handlers.RequireUser(authSvc), deps.OrderHandler.DetailPage)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Quá nhiều lần thử. Vui lòng thử lại sau."})
		},
	}), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)

	// ---------- JSON API ----------
	api := app.Group("/api")
	api.Get("/cart", deps.CartHandler.Get)
	api.Post("/cart", deps.CartHandler.Add)
	api.Put("/cart", deps.CartHandler.Update)
	api.Delete("/cart", deps.CartHandler.Remove)
	api.Get("/shipping", deps.CheckoutHandler.Quote)
	api.Post("/coupons/validate", deps.CheckoutHandler.ValidateCoupon)

	userAPI := api.Group("", handlers.RequireUserAPI(authSvc))
	userAPI.Get("/addresses", deps.CheckoutHandler.ListAddresses)
	userAPI.Post("/addresses", deps.CheckoutHandler.CreateAddress)
	userAPI.Delete("/addresses/:id", deps.CheckoutHandler.DeleteAddress)
	userAPI.Post("/checkout", deps.CheckoutHandler.Place)
	userAPI.Get("/orders", deps.OrderHandler.List)
	userAPI.Get("/orders/:id", deps.OrderHandler.Detail)
	userAPI.Post("/returns", deps.OrderHandler.SubmitReturn)
	userAPI.Get("/returns", deps.OrderHandler.ListReturns)
	userAPI.Post("/products/:id/reviews", deps.ReviewHandler.Submit)

	// ---------- Admin ----------
	adminH := deps.AdminHandler

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", adminH.Dashboard)
	admin.Get("/orders", adminH.OrdersPage)
	admin.Get("/inventory", adminH.InventoryPage)

	adminAPI := app.Group("/api/admin", handlers.RequireAdminAPI(authSvc))
	adminAPI.Patch("/orders/:id", adminH.UpdateOrderStatus)
	adminAPI.Put("/orders/:id/note", adminH.SetOrderNote)
	adminAPI.Post("/inventory", adminH.UpsertInventory)
	adminAPI.Post("/categories", adminH.CreateCategory)
	adminAPI.Put("/categories/:id", adminH.UpdateCategory)
	adminAPI.Post("/products", adminH.CreateProduct)
	adminAPI.Put("/products/:id", adminH.UpdateProduct)
	adminAPI.Delete("/products/:id", adminH.DeleteProduct)
	adminAPI.Post("/products/:id/variants", adminH.CreateVariant)
	adminAPI.Put("/variants/:id", adminH.UpdateVariant)
	adminAPI.Get("/coupons", adminH.ListCoupons)
	adminAPI.Post("/coupons", adminH.CreateCoupon)
	adminAPI.Put("/coupons/:id", adminH.UpdateCoupon)
	adminAPI.Get("/returns/pending", adminH.PendingReturns)
	adminAPI.Patch("/returns/:id", adminH.DecideReturn)
	adminAPI.Get("/reviews/pending", adminH.PendingReviews)
	adminAPI.Patch("/reviews/:id", adminH.ModerateReview)
	adminAPI.Put("/shipping-zones/:id", adminH.UpsertZone)
	adminAPI.Delete("/shipping-zones/:id", adminH.DeleteZone)
	adminAPI.Get("/reports/summary", adminH.ReportSummary)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(404).JSON(fiber.Map{"error": "Không tìm thấy"})
		}
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Không tìm thấy trang"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
