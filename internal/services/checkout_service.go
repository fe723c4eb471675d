package services

import (
	"strings"
	"time"

	"aolua/internal/domain"
	"aolua/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CheckoutService struct {
	DB        *sqlx.DB
	Cart      *CartService
	Carts     *repos.CartRepo
	Addresses *repos.AddressRepo
	Shipping  *ShippingService
	Coupons   *CouponService
	CpRepo    *repos.CouponRepo
	Inv       *repos.InventoryRepo
	Orders    *repos.OrderRepo
}

type CheckoutInput struct {
	UserID     string
	AddressID  string
	CouponCode string
	Payment    string
	Note       string
}

type CheckoutResult struct {
	OrderID     string
	OrderNumber string
	Total       int64
}

// Place runs the whole order-creation flow: preconditions, stock pre-check,
// total computation, then one transaction covering the order row, its items,
// the inventory decrements, the coupon usage bump, cart clearing and the
// initial PENDING history entry.
func (s *CheckoutService) Place(in CheckoutInput) (CheckoutResult, error) {
	// ---- Preconditions (reported before anything mutates) ----
	addr, err := s.Addresses.ByID(in.AddressID)
	if err != nil || addr.UserID != in.UserID {
		return CheckoutResult{}, ErrInvalidAddress
	}

	cv, err := s.Cart.View(Identity{UserID: in.UserID})
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(cv.Items) == 0 {
		return CheckoutResult{}, ErrCartEmpty
	}

	// Stock pre-check: reject the whole checkout naming the first offender.
	for _, it := range cv.Items {
		if it.Quantity > it.Available {
			return CheckoutResult{}, &StockError{
				VariantID:   it.VariantID,
				SKU:         it.SKU,
				ProductName: it.ProductName,
				Requested:   it.Quantity,
				Available:   it.Available,
			}
		}
	}

	// ---- Totals ----
	now := time.Now()
	subtotal := cv.Subtotal

	fee, err := s.Shipping.Fee(addr.City, subtotal)
	if err != nil {
		return CheckoutResult{}, err
	}

	// An absent or unusable coupon yields zero discount; it never aborts
	// the checkout.
	var discount int64
	var couponID string
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		if cp, d, err := s.Coupons.Validate(code, subtotal, now); err == nil {
			discount = d
			couponID = cp.ID
		}
	}
	if discount > subtotal {
		discount = subtotal
	}
	total := subtotal + fee - discount

	payment := strings.ToUpper(strings.TrimSpace(in.Payment))
	if payment == "" {
		payment = "COD"
	}

	// ---- Atomic section ----
	tx, err := s.DB.Beginx()
	if err != nil {
		return CheckoutResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	num, err := s.freshOrderNumber(tx, now)
	if err != nil {
		return CheckoutResult{}, err
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		OrderNumber: num,
		UserID:      in.UserID,
		AddressID:   addr.ID,
		Status:      domain.StatusPending,
		Subtotal:    subtotal,
		ShippingFee: fee,
		Discount:    discount,
		Total:       total,
		CouponID:    couponID,
		Payment:     payment,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := s.Orders.InsertTx(tx, &order); err != nil {
		return CheckoutResult{}, err
	}

	for _, it := range cv.Items {
		item := domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice, // frozen at purchase time
		}
		if err := s.Orders.InsertItemTx(tx, &item); err != nil {
			return CheckoutResult{}, err
		}
		// The decrement re-checks the floor inside the UPDATE, closing the
		// window between the pre-check and this write under concurrent
		// checkouts of the same variant.
		if err := s.Inv.DecrementTx(tx, it.VariantID, it.Quantity); err != nil {
			return CheckoutResult{}, &StockError{
				VariantID:   it.VariantID,
				SKU:         it.SKU,
				ProductName: it.ProductName,
				Requested:   it.Quantity,
				Available:   s.availableTx(tx, it.VariantID),
			}
		}
	}

	if couponID != "" {
		if err := s.CpRepo.IncrementUsageTx(tx, couponID); err != nil {
			return CheckoutResult{}, err
		}
	}

	if err := s.Carts.ClearTx(tx, cv.Cart.ID); err != nil {
		return CheckoutResult{}, err
	}

	if err := s.Orders.InsertHistoryTx(tx, &domain.OrderStatusHistory{
		OrderID: order.ID,
		Status:  domain.StatusPending,
		Actor:   in.UserID,
	}); err != nil {
		return CheckoutResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{OrderID: order.ID, OrderNumber: order.OrderNumber, Total: order.Total}, nil
}

// freshOrderNumber generates a date-prefixed human-readable order number,
// retrying on the rare suffix collision. The UNIQUE constraint on
// order_number backstops the loop.
func (s *CheckoutService) freshOrderNumber(tx *sqlx.Tx, now time.Time) (string, error) {
	for i := 0; i < 5; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
		num := "DH" + now.Format("060102") + "-" + suffix
		exists, err := s.Orders.OrderNumberExists(tx, num)
		if err != nil {
			return "", err
		}
		if !exists {
			return num, nil
		}
	}
	// Six random base16 chars colliding five times in a row means something
	// else is wrong; fall back to a full uuid.
	return "DH" + now.Format("060102") + "-" + strings.ToUpper(uuid.NewString()), nil
}

func (s *CheckoutService) availableTx(tx *sqlx.Tx, variantID string) int {
	var avail int
	if err := tx.Get(&avail, `SELECT quantity - reserved FROM inventory WHERE variant_id=?`, variantID); err != nil {
		return 0
	}
	return avail
}
