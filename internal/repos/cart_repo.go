package repos

import (
	"aolua/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) ByUser(userID string) (domain.Cart, error) {
	var c domain.Cart
	err := r.db.Get(&c, `
	  SELECT id, user_id, guest_token, COALESCE(updated_at,'') AS updated_at
	  FROM carts WHERE user_id = ?
	  ORDER BY datetime(updated_at) DESC LIMIT 1`, userID)
	return c, err
}

func (r *CartRepo) ByGuestToken(token string) (domain.Cart, error) {
	var c domain.Cart
	err := r.db.Get(&c, `
	  SELECT id, user_id, guest_token, COALESCE(updated_at,'') AS updated_at
	  FROM carts WHERE guest_token = ?`, token)
	return c, err
}

func (r *CartRepo) Create(userID, guestToken string) (domain.Cart, error) {
	c := domain.Cart{ID: uuid.NewString(), UserID: userID, GuestToken: guestToken}
	_, err := r.db.Exec(`INSERT INTO carts(id,user_id,guest_token,updated_at) VALUES(?,?,?,CURRENT_TIMESTAMP)`,
		c.ID, c.UserID, c.GuestToken)
	return c, err
}

// CartLine is a cart item hydrated with variant, product and pricing data
// for rendering and for checkout total computation.
type CartLine struct {
	ItemID      string            `db:"item_id"`
	VariantID   string            `db:"variant_id"`
	ProductID   string            `db:"product_id"`
	ProductName string            `db:"product_name"`
	SKU         string            `db:"sku"`
	Color       string            `db:"color"`
	Size        string            `db:"size"`
	Images      domain.StringList `db:"images"`
	Quantity    int               `db:"quantity"`
	BasePrice   int64             `db:"base_price"`
	SalePrice   int64             `db:"sale_price"`
	SaleStart   string            `db:"sale_start"`
	SaleEnd     string            `db:"sale_end"`
	Available   int               `db:"available"`
}

func (l CartLine) Pricing() domain.Pricing {
	return domain.Pricing{
		VariantID: l.VariantID, BasePrice: l.BasePrice, SalePrice: l.SalePrice,
		SaleStart: l.SaleStart, SaleEnd: l.SaleEnd,
	}
}

func (r *CartRepo) Lines(cartID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := r.db.Select(&lines, `
	  SELECT ci.id AS item_id, ci.variant_id, v.product_id, p.name AS product_name,
	         v.sku, v.color, v.size, v.images, ci.quantity,
	         pr.base_price, pr.sale_price, pr.sale_start, pr.sale_end,
	         COALESCE(i.quantity,0) - COALESCE(i.reserved,0) AS available
	  FROM cart_items ci
	  JOIN variants v ON v.id = ci.variant_id
	  JOIN products p ON p.id = v.product_id
	  JOIN pricing pr ON pr.variant_id = v.id
	  LEFT JOIN inventory i ON i.variant_id = v.id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at`, cartID)
	return lines, err
}

// UpsertItem adds a line or increments an existing one.
func (r *CartRepo) UpsertItem(cartID, variantID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,variant_id,quantity,created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,variant_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), cartID, variantID, qty)
	if err != nil {
		return err
	}
	return r.touch(cartID)
}

// SetQuantity sets an exact quantity; zero or below deletes the row, never
// leaving a zero-quantity line behind.
func (r *CartRepo) SetQuantity(cartID, itemID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(cartID, itemID)
	}
	_, err := r.db.Exec(`
		UPDATE cart_items SET quantity=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=? AND cart_id=?`, qty, itemID, cartID)
	if err != nil {
		return err
	}
	return r.touch(cartID)
}

func (r *CartRepo) RemoveItem(cartID, itemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE id=? AND cart_id=?`, itemID, cartID)
	if err != nil {
		return err
	}
	return r.touch(cartID)
}

// ClearTx empties the cart inside the checkout transaction. The cart row
// itself survives.
func (r *CartRepo) ClearTx(tx *sqlx.Tx, cartID string) error {
	_, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

func (r *CartRepo) touch(cartID string) error {
	_, err := r.db.Exec(`UPDATE carts SET updated_at=CURRENT_TIMESTAMP WHERE id=?`, cartID)
	return err
}

// MergeForLogin folds a guest cart into the user's cart at login, summing
// quantities on shared variants, then drops the guest cart.
func (r *CartRepo) MergeForLogin(userID, guestToken string) error {
	if guestToken == "" {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var guestID string
	if err := tx.Get(&guestID, `SELECT id FROM carts WHERE guest_token=?`, guestToken); err != nil {
		return tx.Commit() // nothing to merge
	}

	var userCartID string
	err = tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY datetime(updated_at) DESC LIMIT 1`, userID)
	if err != nil {
		// No user cart yet: claim the guest cart.
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, guest_token='', updated_at=CURRENT_TIMESTAMP WHERE id=?`,
			userID, guestID); err != nil {
			return err
		}
		return tx.Commit()
	}

	type line struct {
		VariantID string `db:"variant_id"`
		Quantity  int    `db:"quantity"`
	}
	var lines []line
	if err := tx.Select(&lines, `SELECT variant_id, quantity FROM cart_items WHERE cart_id=?`, guestID); err != nil {
		return err
	}
	for _, it := range lines {
		if _, err := tx.Exec(`
			INSERT INTO cart_items(id,cart_id,variant_id,quantity,created_at)
			VALUES(?,?,?,?,CURRENT_TIMESTAMP)
			ON CONFLICT(cart_id,variant_id) DO UPDATE
			SET quantity = cart_items.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP`,
			uuid.NewString(), userCartID, it.VariantID, it.Quantity); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, guestID); err != nil {
		return err
	}
	return tx.Commit()
}
