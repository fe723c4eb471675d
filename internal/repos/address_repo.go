package repos

import (
	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AddressRepo struct{ db *sqlx.DB }

func NewAddressRepo(db *sqlx.DB) *AddressRepo { return &AddressRepo{db: db} }

func (r *AddressRepo) ByID(id string) (domain.Address, error) {
	var a domain.Address
	err := r.db.Get(&a, `
	  SELECT id,user_id,recipient,phone,line1,ward,district,city,is_default,created_at
	  FROM addresses WHERE id=?`, id)
	return a, err
}

func (r *AddressRepo) ListByUser(userID string) ([]domain.Address, error) {
	var out []domain.Address
	err := r.db.Select(&out, `
	  SELECT id,user_id,recipient,phone,line1,ward,district,city,is_default,created_at
	  FROM addresses WHERE user_id=?
	  ORDER BY is_default DESC, datetime(created_at) DESC`, userID)
	return out, err
}

func (r *AddressRepo) Create(a *domain.Address) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if a.IsDefault {
		if _, err := tx.Exec(`UPDATE addresses SET is_default=0 WHERE user_id=?`, a.UserID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
	  INSERT INTO addresses(id,user_id,recipient,phone,line1,ward,district,city,is_default)
	  VALUES(?,?,?,?,?,?,?,?,?)`,
		a.ID, a.UserID, a.Recipient, a.Phone, a.Line1, a.Ward, a.District, a.City, a.IsDefault); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *AddressRepo) Delete(id, userID string) error {
	_, err := r.db.Exec(`DELETE FROM addresses WHERE id=? AND user_id=?`, id, userID)
	return err
}
