package handlers

import (
	"aolua/internal/config"
	"aolua/internal/repos"
	"aolua/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	OrderHandler    *OrderHandler
	ReviewHandler   *ReviewHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	shipRepo := repos.NewShippingRepo(db)
	addrRepo := repos.NewAddressRepo(db)
	returnRepo := repos.NewReturnRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo, reviewRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, userRepo)
	shipSvc := services.NewShippingService(shipRepo, cfg.DefaultShipFee)
	couponSvc := services.NewCouponService(couponRepo)
	checkoutSvc := &services.CheckoutService{
		DB:        db,
		Cart:      cartSvc,
		Carts:     cartRepo,
		Addresses: addrRepo,
		Shipping:  shipSvc,
		Coupons:   couponSvc,
		CpRepo:    couponRepo,
		Inv:       invRepo,
		Orders:    orderRepo,
	}
	orderSvc := services.NewOrderService(db, orderRepo, invRepo, couponRepo)
	returnSvc := services.NewReturnService(returnRepo, orderRepo)
	reviewSvc := services.NewReviewService(reviewRepo)
	reportSvc := services.NewReportService(orderRepo, invRepo)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc, Cfg: cfg},
		CheckoutHandler: &CheckoutHandler{
			Checkout: checkoutSvc,
			Coupons:  couponSvc,
			Shipping: shipSvc,
			Cart:     cartSvc,
			Addrs:    addrRepo,
			Cfg:      cfg,
		},
		OrderHandler:  &OrderHandler{Orders: orderSvc, Returns: returnSvc},
		ReviewHandler: &ReviewHandler{Reviews: reviewSvc},
		AdminHandler: &AdminHandler{
			Orders:   orderSvc,
			OrderRpo: orderRepo,
			Inv:      invRepo,
			Coupons:  couponRepo,
			Prods:    prodRepo,
			Cats:     catRepo,
			Zones:    shipRepo,
			Returns:  returnSvc,
			Reviews:  reviewSvc,
			Reports:  reportSvc,
		},
	}
}
