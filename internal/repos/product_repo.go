package repos

import (
	"fmt"

	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id, category_id, name, description, tags, active,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE category_id = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, catID, limit, offset)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, category_id, name, description, tags, active,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?`, id)
	return p, err
}

// Search runs a substring match over name and description. Plain LIKE on
// the relational store; there is no search index.
func (r *ProductRepo) Search(q, catID string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}

	query := `
	  SELECT id, category_id, name, description, tags, active,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	tags, _ := p.Tags.Value()
	_, err := r.db.Exec(`
	  INSERT INTO products(id,category_id,name,description,tags,active)
	  VALUES(?,?,?,?,?,?)`,
		p.ID, p.CategoryID, p.Name, p.Description, tags, p.Active)
	return err
}

func (r *ProductRepo) Update(p *domain.Product) error {
	tags, _ := p.Tags.Value()
	_, err := r.db.Exec(`
	  UPDATE products SET category_id=?, name=?, description=?, tags=?, active=?,
	         updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		p.CategoryID, p.Name, p.Description, tags, p.Active, p.ID)
	return err
}

// Delete removes a product with its variants, pricing and inventory, unless
// any of its variants appears in order history.
func (r *ProductRepo) Delete(id string) error {
	var n int
	if err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM order_items oi
	  JOIN variants v ON v.id = oi.variant_id
	  WHERE v.product_id = ?`, id); err != nil {
		return err
	}
	if n > 0 {
		return ErrVariantInUse
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	// pricing/inventory cascade from variants
	if _, err := tx.Exec(`DELETE FROM variants WHERE product_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM products WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// VariantDetail carries a variant with its product name, resolved pricing
// record and stock counters, as storefront and cart rendering need it.
type VariantDetail struct {
	domain.Variant
	ProductName string `db:"product_name"`
	BasePrice   int64  `db:"base_price"`
	SalePrice   int64  `db:"sale_price"`
	SaleStart   string `db:"sale_start"`
	SaleEnd     string `db:"sale_end"`
	Quantity    int    `db:"quantity"`
	Reserved    int    `db:"reserved"`
}

func (d VariantDetail) Pricing() domain.Pricing {
	return domain.Pricing{
		VariantID: d.ID, BasePrice: d.BasePrice, SalePrice: d.SalePrice,
		SaleStart: d.SaleStart, SaleEnd: d.SaleEnd,
	}
}

func (d VariantDetail) Available() int { return d.Quantity - d.Reserved }

const variantDetailCols = `
	  v.id, v.product_id, v.sku, v.color, v.size, v.material, v.images, v.active,
	  v.created_at, COALESCE(v.updated_at,'') AS updated_at,
	  p.name AS product_name,
	  pr.base_price, pr.sale_price, pr.sale_start, pr.sale_end,
	  COALESCE(i.quantity,0) AS quantity, COALESCE(i.reserved,0) AS reserved`

func (r *ProductRepo) GetVariant(id string) (VariantDetail, error) {
	var d VariantDetail
	err := r.db.Get(&d, `
	  SELECT `+variantDetailCols+`
	  FROM variants v
	  JOIN products p ON p.id = v.product_id
	  JOIN pricing pr ON pr.variant_id = v.id
	  LEFT JOIN inventory i ON i.variant_id = v.id
	  WHERE v.id = ?`, id)
	return d, err
}

func (r *ProductRepo) ListVariants(productID string) ([]VariantDetail, error) {
	var out []VariantDetail
	err := r.db.Select(&out, `
	  SELECT `+variantDetailCols+`
	  FROM variants v
	  JOIN products p ON p.id = v.product_id
	  JOIN pricing pr ON pr.variant_id = v.id
	  LEFT JOIN inventory i ON i.variant_id = v.id
	  WHERE v.product_id = ? AND v.active = 1
	  ORDER BY v.sku`, productID)
	return out, err
}

// CreateVariant inserts the variant with its pricing and inventory rows in
// one transaction. A duplicate SKU fails with ErrSKUConflict naming the SKU.
func (r *ProductRepo) CreateVariant(v *domain.Variant, price domain.Pricing, stock int) error {
	if err := r.skuFree(v.SKU, ""); err != nil {
		return err
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	images, _ := v.Images.Value()
	if _, err := tx.Exec(`
	  INSERT INTO variants(id,product_id,sku,color,size,material,images,active)
	  VALUES(?,?,?,?,?,?,?,?)`,
		v.ID, v.ProductID, v.SKU, v.Color, v.Size, v.Material, images, v.Active); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  INSERT INTO pricing(variant_id,base_price,sale_price,sale_start,sale_end)
	  VALUES(?,?,?,?,?)`,
		v.ID, price.BasePrice, price.SalePrice, price.SaleStart, price.SaleEnd); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  INSERT INTO inventory(variant_id,quantity,reserved,updated_at)
	  VALUES(?,?,0,CURRENT_TIMESTAMP)`, v.ID, stock); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ProductRepo) UpdateVariant(v *domain.Variant, price domain.Pricing) error {
	if err := r.skuFree(v.SKU, v.ID); err != nil {
		return err
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	images, _ := v.Images.Value()
	if _, err := tx.Exec(`
	  UPDATE variants SET sku=?, color=?, size=?, material=?, images=?, active=?,
	         updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		v.SKU, v.Color, v.Size, v.Material, images, v.Active, v.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  UPDATE pricing SET base_price=?, sale_price=?, sale_start=?, sale_end=?
	  WHERE variant_id=?`,
		price.BasePrice, price.SalePrice, price.SaleStart, price.SaleEnd, v.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ProductRepo) skuFree(sku, selfID string) error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM variants WHERE UPPER(sku)=UPPER(?) AND id != ?`, sku, selfID); err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrSKUConflict, sku)
	}
	return nil
}
