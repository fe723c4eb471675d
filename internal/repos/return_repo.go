package repos

import (
	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReturnRepo struct{ db *sqlx.DB }

func NewReturnRepo(db *sqlx.DB) *ReturnRepo { return &ReturnRepo{db: db} }

const returnCols = `id, order_id, user_id, reason, detail, evidence, status,
	  refund_amount, admin_note, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ReturnRepo) Create(rr *domain.ReturnRequest) error {
	evidence, _ := rr.Evidence.Value()
	_, err := r.db.Exec(`
	  INSERT INTO return_requests(id,order_id,user_id,reason,detail,evidence,status)
	  VALUES(?,?,?,?,?,?,?)`,
		rr.ID, rr.OrderID, rr.UserID, rr.Reason, rr.Detail, evidence, rr.Status)
	return err
}

func (r *ReturnRepo) ByID(id string) (domain.ReturnRequest, error) {
	var rr domain.ReturnRequest
	err := r.db.Get(&rr, `SELECT `+returnCols+` FROM return_requests WHERE id=?`, id)
	return rr, err
}

func (r *ReturnRepo) ListByUser(userID string) ([]domain.ReturnRequest, error) {
	var out []domain.ReturnRequest
	err := r.db.Select(&out, `
	  SELECT `+returnCols+` FROM return_requests
	  WHERE user_id=? ORDER BY datetime(created_at) DESC`, userID)
	return out, err
}

func (r *ReturnRepo) ListPending() ([]domain.ReturnRequest, error) {
	var out []domain.ReturnRequest
	err := r.db.Select(&out, `
	  SELECT `+returnCols+` FROM return_requests
	  WHERE status='PENDING' ORDER BY datetime(created_at)`)
	return out, err
}

func (r *ReturnRepo) UpdateDecision(id string, status domain.ReturnStatus, refund int64, note string) error {
	_, err := r.db.Exec(`
	  UPDATE return_requests
	  SET status=?, refund_amount=?, admin_note=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`, status, refund, note, id)
	return err
}
