package repos

import (
	"fmt"

	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

func (r *InventoryRepo) Get(variantID string) (domain.Inventory, error) {
	var inv domain.Inventory
	err := r.db.Get(&inv, `
	  SELECT variant_id, quantity, reserved, COALESCE(updated_at,'') AS updated_at
	  FROM inventory WHERE variant_id = ?`, variantID)
	return inv, err
}

// DecrementTx subtracts sold units inside the checkout transaction. The
// floor check is part of the UPDATE itself, so two concurrent checkouts
// cannot both take the last unit: the loser matches zero rows.
func (r *InventoryRepo) DecrementTx(tx *sqlx.Tx, variantID string, by int) error {
	res, err := tx.Exec(`
		UPDATE inventory
		SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE variant_id = ? AND quantity - reserved >= ?`, by, variantID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for variant %s", variantID)
	}
	return nil
}

// IncrementTx restocks units, used by the CANCELLED transition.
func (r *InventoryRepo) IncrementTx(tx *sqlx.Tx, variantID string, by int) error {
	_, err := tx.Exec(`
		UPDATE inventory
		SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE variant_id = ?`, by, variantID)
	return err
}

// UpsertQty sets the on-hand quantity for a variant (admin stock entry).
func (r *InventoryRepo) UpsertQty(variantID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO inventory(variant_id, quantity, reserved, updated_at)
		VALUES (?, ?, 0, CURRENT_TIMESTAMP)
		ON CONFLICT(variant_id) DO UPDATE SET quantity = excluded.quantity, updated_at = CURRENT_TIMESTAMP`,
		variantID, qty)
	return err
}

// Row used by the admin back office
type StockRow struct {
	VariantID   string `db:"variant_id"`
	SKU         string `db:"sku"`
	ProductName string `db:"product_name"`
	Quantity    int    `db:"quantity"`
	Reserved    int    `db:"reserved"`
}

func (r *InventoryRepo) ListAll() ([]StockRow, error) {
	var rows []StockRow
	err := r.db.Select(&rows, `
		SELECT i.variant_id, v.sku, p.name AS product_name, i.quantity, i.reserved
		FROM inventory i
		JOIN variants v ON v.id = i.variant_id
		JOIN products p ON p.id = v.product_id
		ORDER BY p.name, v.sku`)
	return rows, err
}

func (r *InventoryRepo) LowStock(threshold int) ([]StockRow, error) {
	var rows []StockRow
	err := r.db.Select(&rows, `
		SELECT i.variant_id, v.sku, p.name AS product_name, i.quantity, i.reserved
		FROM inventory i
		JOIN variants v ON v.id = i.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE i.quantity - i.reserved <= ?
		ORDER BY i.quantity - i.reserved, v.sku`, threshold)
	return rows, err
}
