package domain

import (
	"errors"
	"time"
)

const (
	CouponPercentage = "PERCENTAGE"
	CouponFixed      = "FIXED"
)

var (
	ErrCouponInactive   = errors.New("coupon not active")
	ErrCouponNotStarted = errors.New("coupon not started")
	ErrCouponExpired    = errors.New("coupon expired")
	ErrCouponExhausted  = errors.New("coupon usage limit reached")
	ErrCouponMinOrder   = errors.New("order below coupon minimum")
)

// Coupon is a discount code. Codes are canonically uppercase; lookups
// uppercase the input first. UsedCount moves only inside the checkout and
// cancellation transactions, never during validation.
type Coupon struct {
	ID          string `db:"id"`
	Code        string `db:"code"`
	Type        string `db:"type"` // PERCENTAGE | FIXED
	Value       int64  `db:"value"`
	MinOrder    int64  `db:"min_order"`    // 0 = no minimum
	MaxDiscount int64  `db:"max_discount"` // 0 = no cap (percentage only)
	UsageLimit  int    `db:"usage_limit"`  // 0 = unlimited
	UsedCount   int    `db:"used_count"`
	Active      bool   `db:"active"`
	StartDate   string `db:"start_date"` // RFC3339, inclusive
	EndDate     string `db:"end_date"`
	CreatedAt   string `db:"created_at"`
}

// Usable checks every eligibility gate against the given subtotal at now.
// It returns the first failed gate as a sentinel error.
func (cp Coupon) Usable(subtotal int64, now time.Time) error {
	if !cp.Active {
		return ErrCouponInactive
	}
	if cp.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, cp.StartDate); err == nil && now.Before(t) {
			return ErrCouponNotStarted
		}
	}
	if cp.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, cp.EndDate); err == nil && now.After(t) {
			return ErrCouponExpired
		}
	}
	if cp.UsageLimit > 0 && cp.UsedCount >= cp.UsageLimit {
		return ErrCouponExhausted
	}
	if cp.MinOrder > 0 && subtotal < cp.MinOrder {
		return ErrCouponMinOrder
	}
	return nil
}

// Discount computes the discount amount for the subtotal. Percentage values
// round half-up; the result is capped by MaxDiscount when set, and never
// exceeds the subtotal.
func (cp Coupon) Discount(subtotal int64) int64 {
	var d int64
	switch cp.Type {
	case CouponPercentage:
		d = (subtotal*cp.Value + 50) / 100
		if cp.MaxDiscount > 0 && d > cp.MaxDiscount {
			d = cp.MaxDiscount
		}
	case CouponFixed:
		d = cp.Value
	default:
		return 0
	}
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d
}
