package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"aolua/internal/domain"
	"aolua/internal/repos"
	"aolua/internal/services"
)

// testEnv wires the full service stack on a seeded in-memory database.
type testEnv struct {
	db       *sqlx.DB
	carts    *repos.CartRepo
	inv      *repos.InventoryRepo
	coupons  *repos.CouponRepo
	orders   *repos.OrderRepo
	cartSvc  *services.CartService
	checkout *services.CheckoutService
	orderSvc *services.OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	shipRepo := repos.NewShippingRepo(db)
	addrRepo := repos.NewAddressRepo(db)
	userRepo := repos.NewUserRepo(db)

	cartSvc := services.NewCartService(cartRepo, prodRepo, userRepo)
	shipSvc := services.NewShippingService(shipRepo, 40000)
	couponSvc := services.NewCouponService(couponRepo)

	return &testEnv{
		db:      db,
		carts:   cartRepo,
		inv:     invRepo,
		coupons: couponRepo,
		orders:  orderRepo,
		cartSvc: cartSvc,
		checkout: &services.CheckoutService{
			DB:        db,
			Cart:      cartSvc,
			Carts:     cartRepo,
			Addresses: addrRepo,
			Shipping:  shipSvc,
			Coupons:   couponSvc,
			CpRepo:    couponRepo,
			Inv:       invRepo,
			Orders:    orderRepo,
		},
		orderSvc: services.NewOrderService(db, orderRepo, invRepo, couponRepo),
	}
}

func (e *testEnv) available(t *testing.T, variantID string) int {
	t.Helper()
	inv, err := e.inv.Get(variantID)
	if err != nil {
		t.Fatalf("inventory get: %v", err)
	}
	return inv.Available()
}

// Seeded fixture: u-lan owns addr-lan-1 in Hà Nội; v-dam-be-m costs
// 790.000đ with 20 in stock; the Hà Nội zone ships free from 500.000đ;
// SALE10 is 10% off capped at 100.000đ.
func TestCheckoutHappyPathWithCoupon(t *testing.T) {
	e := newTestEnv(t)
	lan := services.Identity{UserID: "u-lan"}

	if _, err := e.cartSvc.AddItem(lan, "v-dam-be-m", 2); err != nil {
		t.Fatal(err)
	}

	res, err := e.checkout.Place(services.CheckoutInput{
		UserID:     "u-lan",
		AddressID:  "addr-lan-1",
		CouponCode: "sale10", // lowercase input must still match
	})
	if err != nil {
		t.Fatal(err)
	}

	// 1.580.000 subtotal, free shipping, 10% capped at 100.000
	if res.Total != 1480000 {
		t.Fatalf("want total 1480000, got %d", res.Total)
	}
	if !strings.HasPrefix(res.OrderNumber, "DH") {
		t.Fatalf("order number missing DH prefix: %s", res.OrderNumber)
	}

	o, err := e.orders.Get(res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("want PENDING, got %s", o.Status)
	}
	if o.Subtotal != 1580000 || o.ShippingFee != 0 || o.Discount != 100000 {
		t.Fatalf("bad totals: %+v", o)
	}

	// Inventory decremented, cart emptied, coupon consumed.
	if got := e.available(t, "v-dam-be-m"); got != 18 {
		t.Fatalf("want 18 available, got %d", got)
	}
	cv, err := e.cartSvc.View(lan)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("cart should be empty after checkout, has %d items", len(cv.Items))
	}
	cp, err := e.coupons.ByCode("SALE10")
	if err != nil {
		t.Fatal(err)
	}
	if cp.UsedCount != 1 {
		t.Fatalf("want used_count 1, got %d", cp.UsedCount)
	}

	hist, err := e.orders.History(res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].Status != domain.StatusPending {
		t.Fatalf("want one PENDING history row, got %+v", hist)
	}
}

func TestCheckoutFreezesUnitPrice(t *testing.T) {
	e := newTestEnv(t)
	lan := services.Identity{UserID: "u-lan"}

	// v-sm-trang-l has an open-ended sale: 590.000 instead of 650.000.
	if _, err := e.cartSvc.AddItem(lan, "v-sm-trang-l", 1); err != nil {
		t.Fatal(err)
	}
	res, err := e.checkout.Place(services.CheckoutInput{UserID: "u-lan", AddressID: "addr-lan-1"})
	if err != nil {
		t.Fatal(err)
	}

	items, err := e.orders.Items(res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].UnitPrice != 590000 {
		t.Fatalf("sale price should be frozen on the line, got %+v", items)
	}

	// Later price changes must not touch the order.
	e.db.MustExec(`UPDATE pricing SET base_price=999000, sale_price=0 WHERE variant_id='v-sm-trang-l'`)
	items, err = e.orders.Items(res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].UnitPrice != 590000 {
		t.Fatalf("frozen price drifted to %d", items[0].UnitPrice)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	e := newTestEnv(t)
	lan := services.Identity{UserID: "u-lan"}

	// Only 8 shirts in stock.
	if _, err := e.cartSvc.AddItem(lan, "v-sm-trang-l", 9); err != nil {
		t.Fatal(err)
	}
	_, err := e.checkout.Place(services.CheckoutInput{UserID: "u-lan", AddressID: "addr-lan-1"})

	var se *services.StockError
	if !errors.As(err, &se) {
		t.Fatalf("want StockError, got %v", err)
	}
	if se.SKU != "SM-TRANG-L" || se.Available != 8 || se.Requested != 9 {
		t.Fatalf("bad stock error: %+v", se)
	}

	// Nothing may have moved.
	if got := e.available(t, "v-sm-trang-l"); got != 8 {
		t.Fatalf("inventory must be untouched, got %d", got)
	}
	var n int
	if err := e.db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("no order rows expected, got %d", n)
	}
	cv, err := e.cartSvc.View(lan)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.checkout.Place(services.CheckoutInput{UserID: "u-lan", AddressID: "addr-lan-1"})
	if !errors.Is(err, services.ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}
}

func TestCheckoutForeignAddressRejected(t *testing.T) {
	e := newTestEnv(t)
	minh := services.Identity{UserID: "u-minh"}
	if _, err := e.cartSvc.AddItem(minh, "v-dam-be-m", 1); err != nil {
		t.Fatal(err)
	}
	// addr-lan-1 belongs to u-lan, not u-minh.
	_, err := e.checkout.Place(services.CheckoutInput{UserID: "u-minh", AddressID: "addr-lan-1"})
	if !errors.Is(err, services.ErrInvalidAddress) {
		t.Fatalf("want ErrInvalidAddress, got %v", err)
	}
}

func TestCheckoutBadCouponStillPlacesOrder(t *testing.T) {
	e := newTestEnv(t)
	lan := services.Identity{UserID: "u-lan"}
	if _, err := e.cartSvc.AddItem(lan, "v-dam-be-m", 1); err != nil {
		t.Fatal(err)
	}
	res, err := e.checkout.Place(services.CheckoutInput{
		UserID:     "u-lan",
		AddressID:  "addr-lan-1",
		CouponCode: "KHONGTONTAI",
	})
	if err != nil {
		t.Fatal(err)
	}
	o, err := e.orders.Get(res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Discount != 0 || o.CouponID != "" {
		t.Fatalf("unknown coupon must mean zero discount, got %+v", o)
	}
}
