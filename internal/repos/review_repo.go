package repos

import (
	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(rv *domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id,product_id,user_id,rating,comment,approved)
	  VALUES(?,?,?,?,?,0)`,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment)
	return err
}

// ApprovedRow is a review joined with the reviewer's display name.
type ApprovedRow struct {
	domain.Review
	UserName string `db:"user_name"`
}

func (r *ReviewRepo) ListApproved(productID string) ([]ApprovedRow, error) {
	var out []ApprovedRow
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.comment, rv.approved,
	         rv.response, rv.created_at, u.name AS user_name
	  FROM reviews rv
	  JOIN users u ON u.id = rv.user_id
	  WHERE rv.product_id = ? AND rv.approved = 1
	  ORDER BY datetime(rv.created_at) DESC`, productID)
	return out, err
}

func (r *ReviewRepo) ListPending() ([]ApprovedRow, error) {
	var out []ApprovedRow
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.comment, rv.approved,
	         rv.response, rv.created_at, u.name AS user_name
	  FROM reviews rv
	  JOIN users u ON u.id = rv.user_id
	  WHERE rv.approved = 0
	  ORDER BY datetime(rv.created_at)`)
	return out, err
}

func (r *ReviewRepo) Moderate(id string, approved bool, response string) error {
	_, err := r.db.Exec(`UPDATE reviews SET approved=?, response=? WHERE id=?`, approved, response, id)
	return err
}

// AverageRating returns the mean approved rating and review count.
func (r *ReviewRepo) AverageRating(productID string) (float64, int, error) {
	var row struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err := r.db.Get(&row, `
	  SELECT COALESCE(AVG(rating),0) AS avg, COUNT(*) AS count
	  FROM reviews WHERE product_id=? AND approved=1`, productID)
	return row.Avg, row.Count, err
}

// HasPurchased gates reviews to customers who actually bought the product.
func (r *ReviewRepo) HasPurchased(userID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*)
	  FROM order_items oi
	  JOIN orders o ON o.id = oi.order_id AND o.user_id = ? AND o.status != 'CANCELLED'
	  JOIN variants v ON v.id = oi.variant_id
	  WHERE v.product_id = ?`, userID, productID)
	return n > 0, err
}
