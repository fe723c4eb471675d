package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestPercentageDiscountRoundsHalfUp(t *testing.T) {
	cp := Coupon{Type: CouponPercentage, Value: 10}
	// 10% of 1.234.567đ = 123.456,7 → rounds to 123.457
	assert.Equal(t, int64(123457), cp.Discount(1234567))
	assert.Equal(t, int64(50000), cp.Discount(500000))
}

func TestPercentageDiscountCaps(t *testing.T) {
	cp := Coupon{Type: CouponPercentage, Value: 10, MaxDiscount: 100000}
	assert.Equal(t, int64(100000), cp.Discount(2000000), "capped at max discount")
	assert.Equal(t, int64(30000), cp.Discount(300000), "below cap passes through")
}

func TestFixedDiscountClampsToSubtotal(t *testing.T) {
	cp := Coupon{Type: CouponFixed, Value: 50000}
	assert.Equal(t, int64(50000), cp.Discount(300000))
	assert.Equal(t, int64(30000), cp.Discount(30000), "never exceeds subtotal")
}

func TestUsableGates(t *testing.T) {
	base := Coupon{Code: "TET25", Type: CouponFixed, Value: 50000, Active: true}

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, base.Usable(400000, now))
	})

	t.Run("inactive", func(t *testing.T) {
		cp := base
		cp.Active = false
		assert.ErrorIs(t, cp.Usable(400000, now), ErrCouponInactive)
	})

	t.Run("not started", func(t *testing.T) {
		cp := base
		cp.StartDate = now.Add(24 * time.Hour).Format(time.RFC3339)
		assert.ErrorIs(t, cp.Usable(400000, now), ErrCouponNotStarted)
	})

	t.Run("expired", func(t *testing.T) {
		cp := base
		cp.EndDate = now.Add(-24 * time.Hour).Format(time.RFC3339)
		assert.ErrorIs(t, cp.Usable(400000, now), ErrCouponExpired)
	})

	t.Run("window inclusive", func(t *testing.T) {
		cp := base
		cp.StartDate = now.Format(time.RFC3339)
		cp.EndDate = now.Format(time.RFC3339)
		assert.NoError(t, cp.Usable(400000, now))
	})

	t.Run("exhausted", func(t *testing.T) {
		cp := base
		cp.UsageLimit = 3
		cp.UsedCount = 3
		assert.ErrorIs(t, cp.Usable(400000, now), ErrCouponExhausted)
	})

	t.Run("under minimum order", func(t *testing.T) {
		cp := base
		cp.MinOrder = 500000
		assert.ErrorIs(t, cp.Usable(400000, now), ErrCouponMinOrder)
	})
}

func TestPricingEffectiveAt(t *testing.T) {
	p := Pricing{BasePrice: 650000, SalePrice: 590000}
	assert.Equal(t, int64(590000), p.EffectiveAt(now), "open-ended sale applies")

	p.SaleStart = now.Add(time.Hour).Format(time.RFC3339)
	assert.Equal(t, int64(650000), p.EffectiveAt(now), "sale not started yet")

	p.SaleStart = now.Add(-time.Hour).Format(time.RFC3339)
	p.SaleEnd = now.Add(-time.Minute).Format(time.RFC3339)
	assert.Equal(t, int64(650000), p.EffectiveAt(now), "sale over")

	p.SaleEnd = now.Add(time.Hour).Format(time.RFC3339)
	assert.Equal(t, int64(590000), p.EffectiveAt(now), "inside window")

	none := Pricing{BasePrice: 790000}
	assert.Equal(t, int64(790000), none.EffectiveAt(now), "zero sale price means no sale")
}
