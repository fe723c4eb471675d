package repos

import (
	"strconv"

	"aolua/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, order_number, user_id, address_id, status, subtotal,
	  shipping_fee, discount, total, coupon_id, payment_method, note, admin_note, created_at`

// ---------- Checkout transaction pieces ----------

func (r *OrderRepo) InsertTx(tx *sqlx.Tx, o *domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, order_number, user_id, address_id, status, subtotal, shipping_fee,
	     discount, total, coupon_id, payment_method, note, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
		o.ID, o.OrderNumber, o.UserID, o.AddressID, o.Status, o.Subtotal,
		o.ShippingFee, o.Discount, o.Total, o.CouponID, o.Payment, o.Note)
	return err
}

func (r *OrderRepo) InsertItemTx(tx *sqlx.Tx, it *domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items(id, order_id, variant_id, quantity, unit_price)
	  VALUES(?,?,?,?,?)`,
		it.ID, it.OrderID, it.VariantID, it.Quantity, it.UnitPrice)
	return err
}

func (r *OrderRepo) InsertHistoryTx(tx *sqlx.Tx, h *domain.OrderStatusHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := tx.Exec(`
	  INSERT INTO order_status_history(id, order_id, status, note, actor, created_at)
	  VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)`,
		h.ID, h.OrderID, h.Status, h.Note, h.Actor)
	return err
}

func (r *OrderRepo) GetTx(tx *sqlx.Tx, id string) (domain.Order, error) {
	var o domain.Order
	err := tx.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id=?`, id)
	return o, err
}

func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, id string, status domain.OrderStatus) error {
	_, err := tx.Exec(`UPDATE orders SET status=? WHERE id=?`, status, id)
	return err
}

// ItemsTx reads line items inside a transaction (cancellation restock).
func (r *OrderRepo) ItemsTx(tx *sqlx.Tx, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	err := tx.Select(&out, `
	  SELECT id, order_id, variant_id, quantity, unit_price
	  FROM order_items WHERE order_id=?`, orderID)
	return out, err
}

// OrderNumberExists supports the generate-and-retry loop in checkout.
func (r *OrderRepo) OrderNumberExists(tx *sqlx.Tx, num string) (bool, error) {
	var n int
	if err := tx.Get(&n, `SELECT COUNT(*) FROM orders WHERE order_number=?`, num); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ---------- Reads ----------

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id=?`, id)
	return o, err
}

// ItemRow is an order line hydrated for display.
type ItemRow struct {
	VariantID   string `db:"variant_id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	SKU         string `db:"sku"`
	Color       string `db:"color"`
	Size        string `db:"size"`
	Quantity    int    `db:"quantity"`
	UnitPrice   int64  `db:"unit_price"`
	Subtotal    int64  `db:"subtotal"`
}

func (r *OrderRepo) Items(orderID string) ([]ItemRow, error) {
	var items []ItemRow
	err := r.db.Select(&items, `
	  SELECT oi.variant_id, v.product_id, p.name AS product_name, v.sku, v.color, v.size,
	         oi.quantity, oi.unit_price, (oi.quantity * oi.unit_price) AS subtotal
	  FROM order_items oi
	  JOIN variants v ON v.id = oi.variant_id
	  JOIN products p ON p.id = v.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name`, orderID)
	return items, err
}

func (r *OrderRepo) History(orderID string) ([]domain.OrderStatusHistory, error) {
	var out []domain.OrderStatusHistory
	err := r.db.Select(&out, `
	  SELECT id, order_id, status, note, actor, created_at
	  FROM order_status_history
	  WHERE order_id = ?
	  ORDER BY datetime(created_at), id`, orderID)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?`, limit)
	return out, err
}

func (r *OrderRepo) SetAdminNote(id, note string) error {
	_, err := r.db.Exec(`UPDATE orders SET admin_note=? WHERE id=?`, note, id)
	return err
}

// ---------- Reporting aggregates (admin dashboard) ----------

type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (r *OrderRepo) CountByStatus() ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.Select(&out, `
	  SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY status`)
	return out, err
}

type DayRevenue struct {
	Day     string `db:"day"`
	Orders  int    `db:"orders"`
	Revenue int64  `db:"revenue"`
}

// RevenueByDay sums delivered-or-in-flight revenue per day; cancelled
// orders are excluded.
func (r *OrderRepo) RevenueByDay(days int) ([]DayRevenue, error) {
	if days <= 0 {
		days = 30
	}
	var out []DayRevenue
	err := r.db.Select(&out, `
	  SELECT date(created_at) AS day, COUNT(*) AS orders, SUM(total) AS revenue
	  FROM orders
	  WHERE status != 'CANCELLED'
	    AND date(created_at) >= date('now', ?)
	  GROUP BY date(created_at)
	  ORDER BY day DESC`, "-"+strconv.Itoa(days)+" days")
	return out, err
}

type ProductSales struct {
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Units       int    `db:"units"`
	Revenue     int64  `db:"revenue"`
}

func (r *OrderRepo) TopProducts(limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []ProductSales
	err := r.db.Select(&out, `
	  SELECT v.product_id, p.name AS product_name,
	         SUM(oi.quantity) AS units, SUM(oi.quantity * oi.unit_price) AS revenue
	  FROM order_items oi
	  JOIN orders o ON o.id = oi.order_id AND o.status != 'CANCELLED'
	  JOIN variants v ON v.id = oi.variant_id
	  JOIN products p ON p.id = v.product_id
	  GROUP BY v.product_id, p.name
	  ORDER BY revenue DESC
	  LIMIT ?`, limit)
	return out, err
}
