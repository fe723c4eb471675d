package repos

import (
	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ShippingRepo struct{ db *sqlx.DB }

func NewShippingRepo(db *sqlx.DB) *ShippingRepo { return &ShippingRepo{db: db} }

// ListZones returns zones in evaluation order; the resolver takes the first
// match.
func (r *ShippingRepo) ListZones() ([]domain.ShippingZone, error) {
	var out []domain.ShippingZone
	err := r.db.Select(&out, `
	  SELECT id, name, cities, fee, free_threshold, position
	  FROM shipping_zones
	  ORDER BY position, name`)
	return out, err
}

func (r *ShippingRepo) Upsert(z *domain.ShippingZone) error {
	cities, _ := z.Cities.Value()
	_, err := r.db.Exec(`
	  INSERT INTO shipping_zones(id,name,cities,fee,free_threshold,position)
	  VALUES(?,?,?,?,?,?)
	  ON CONFLICT(id) DO UPDATE SET
	    name=excluded.name, cities=excluded.cities, fee=excluded.fee,
	    free_threshold=excluded.free_threshold, position=excluded.position`,
		z.ID, z.Name, cities, z.Fee, z.FreeThreshold, z.Position)
	return err
}

func (r *ShippingRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM shipping_zones WHERE id=?`, id)
	return err
}
