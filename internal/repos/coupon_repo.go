package repos

import (
	"fmt"
	"strings"

	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CouponRepo struct{ db *sqlx.DB }

func NewCouponRepo(db *sqlx.DB) *CouponRepo { return &CouponRepo{db: db} }

const couponCols = `id, code, type, value, min_order, max_discount, usage_limit,
	  used_count, active, start_date, end_date, created_at`

// ByCode looks a coupon up by its canonical uppercase form.
func (r *CouponRepo) ByCode(code string) (domain.Coupon, error) {
	var cp domain.Coupon
	err := r.db.Get(&cp, `SELECT `+couponCols+` FROM coupons WHERE UPPER(code)=?`,
		strings.ToUpper(strings.TrimSpace(code)))
	return cp, err
}

func (r *CouponRepo) ByID(id string) (domain.Coupon, error) {
	var cp domain.Coupon
	err := r.db.Get(&cp, `SELECT `+couponCols+` FROM coupons WHERE id=?`, id)
	return cp, err
}

func (r *CouponRepo) List() ([]domain.Coupon, error) {
	var out []domain.Coupon
	err := r.db.Select(&out, `SELECT `+couponCols+` FROM coupons ORDER BY datetime(created_at) DESC`)
	return out, err
}

func (r *CouponRepo) Create(cp *domain.Coupon) error {
	_, err := r.db.Exec(`
	  INSERT INTO coupons(id,code,type,value,min_order,max_discount,usage_limit,active,start_date,end_date)
	  VALUES(?,?,?,?,?,?,?,?,?,?)`,
		cp.ID, strings.ToUpper(cp.Code), cp.Type, cp.Value, cp.MinOrder, cp.MaxDiscount,
		cp.UsageLimit, cp.Active, cp.StartDate, cp.EndDate)
	return err
}

func (r *CouponRepo) Update(cp *domain.Coupon) error {
	_, err := r.db.Exec(`
	  UPDATE coupons SET code=?, type=?, value=?, min_order=?, max_discount=?,
	         usage_limit=?, active=?, start_date=?, end_date=?
	  WHERE id=?`,
		strings.ToUpper(cp.Code), cp.Type, cp.Value, cp.MinOrder, cp.MaxDiscount,
		cp.UsageLimit, cp.Active, cp.StartDate, cp.EndDate, cp.ID)
	return err
}

// IncrementUsageTx bumps used_count inside the checkout transaction. The
// usage-limit guard sits in the UPDATE so a burst of checkouts cannot push
// used_count past the cap.
func (r *CouponRepo) IncrementUsageTx(tx *sqlx.Tx, id string) error {
	res, err := tx.Exec(`
		UPDATE coupons SET used_count = used_count + 1
		WHERE id = ? AND (usage_limit = 0 OR used_count < usage_limit)`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("coupon %s usage limit reached", id)
	}
	return nil
}

// DecrementUsageTx refunds one use when a couponed order is cancelled.
func (r *CouponRepo) DecrementUsageTx(tx *sqlx.Tx, id string) error {
	_, err := tx.Exec(`UPDATE coupons SET used_count = used_count - 1 WHERE id = ? AND used_count > 0`, id)
	return err
}
