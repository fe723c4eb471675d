package domain

import "fmt"

// ReturnStatus: PENDING → APPROVED | REJECTED, then APPROVED → COMPLETED.
// A pure record-keeping machine; no automatic inventory or refund side
// effects.
type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "PENDING"
	ReturnApproved  ReturnStatus = "APPROVED"
	ReturnRejected  ReturnStatus = "REJECTED"
	ReturnCompleted ReturnStatus = "COMPLETED"
)

func (s ReturnStatus) CanTransition(next ReturnStatus) bool {
	switch s {
	case ReturnPending:
		return next == ReturnApproved || next == ReturnRejected
	case ReturnApproved:
		return next == ReturnCompleted
	}
	return false
}

func ParseReturnStatus(s string) (ReturnStatus, error) {
	switch ReturnStatus(s) {
	case ReturnPending, ReturnApproved, ReturnRejected, ReturnCompleted:
		return ReturnStatus(s), nil
	}
	return "", fmt.Errorf("unknown return status %q", s)
}

const (
	ReturnReasonDefective  = "DEFECTIVE"
	ReturnReasonWrongItem  = "WRONG_ITEM"
	ReturnReasonNotAsShown = "NOT_AS_DESCRIBED"
	ReturnReasonChangeMind = "CHANGE_OF_MIND"
)

func ValidReturnReason(s string) bool {
	switch s {
	case ReturnReasonDefective, ReturnReasonWrongItem, ReturnReasonNotAsShown, ReturnReasonChangeMind:
		return true
	}
	return false
}

type ReturnRequest struct {
	ID           string       `db:"id"`
	OrderID      string       `db:"order_id"`
	UserID       string       `db:"user_id"`
	Reason       string       `db:"reason"`
	Detail       string       `db:"detail"`
	Evidence     StringList   `db:"evidence"`
	Status       ReturnStatus `db:"status"`
	RefundAmount int64        `db:"refund_amount"` // meaningful on approval only
	AdminNote    string       `db:"admin_note"`
	CreatedAt    string       `db:"created_at"`
	UpdatedAt    string       `db:"updated_at"`
}

// Review is a customer rating on a product, gated by admin approval before
// it shows on the storefront.
type Review struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	UserID    string `db:"user_id"`
	Rating    int    `db:"rating"` // 1..5
	Comment   string `db:"comment"`
	Approved  bool   `db:"approved"`
	Response  string `db:"response"` // admin reply
	CreatedAt string `db:"created_at"`
}
