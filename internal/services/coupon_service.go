package services

import (
	"database/sql"
	"errors"
	"time"

	"aolua/internal/domain"
	"aolua/internal/repos"
)

var ErrCouponNotFound = errors.New("coupon not found")

type CouponService struct {
	Coupons *repos.CouponRepo
}

func NewCouponService(coupons *repos.CouponRepo) *CouponService {
	return &CouponService{Coupons: coupons}
}

// Validate is read-only: it checks eligibility and computes the discount
// but never touches used_count. The increment belongs to the checkout
// transaction, so repeated preview calls cannot burn usage.
func (s *CouponService) Validate(code string, subtotal int64, now time.Time) (domain.Coupon, int64, error) {
	cp, err := s.Coupons.ByCode(code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Coupon{}, 0, ErrCouponNotFound
		}
		return domain.Coupon{}, 0, err
	}
	if err := cp.Usable(subtotal, now); err != nil {
		return domain.Coupon{}, 0, err
	}
	return cp, cp.Discount(subtotal), nil
}
