package services

import (
	"database/sql"
	"errors"
	"fmt"

	"aolua/internal/domain"
	"aolua/internal/repos"

	"github.com/google/uuid"
)

var ErrReturnNotAllowed = errors.New("order not eligible for return")

type ReturnService struct {
	Returns *repos.ReturnRepo
	Orders  *repos.OrderRepo
}

func NewReturnService(returns *repos.ReturnRepo, orders *repos.OrderRepo) *ReturnService {
	return &ReturnService{Returns: returns, Orders: orders}
}

// Submit opens a return request for a delivered order owned by the caller.
func (s *ReturnService) Submit(userID, orderID, reason, detail string, evidence []string) (domain.ReturnRequest, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReturnRequest{}, ErrOrderNotFound
		}
		return domain.ReturnRequest{}, err
	}
	if o.UserID != userID {
		return domain.ReturnRequest{}, ErrOrderNotFound
	}
	if o.Status != domain.StatusDelivered {
		return domain.ReturnRequest{}, ErrReturnNotAllowed
	}
	if !domain.ValidReturnReason(reason) {
		return domain.ReturnRequest{}, fmt.Errorf("invalid return reason %q", reason)
	}

	rr := domain.ReturnRequest{
		ID:       uuid.NewString(),
		OrderID:  orderID,
		UserID:   userID,
		Reason:   reason,
		Detail:   detail,
		Evidence: evidence,
		Status:   domain.ReturnPending,
	}
	if err := s.Returns.Create(&rr); err != nil {
		return domain.ReturnRequest{}, err
	}
	return rr, nil
}

func (s *ReturnService) Mine(userID string) ([]domain.ReturnRequest, error) {
	return s.Returns.ListByUser(userID)
}

func (s *ReturnService) Pending() ([]domain.ReturnRequest, error) {
	return s.Returns.ListPending()
}

// Decide moves a return through its machine: approval may carry a refund
// amount and a resolution note. Record-keeping only; no inventory or refund
// side effects happen here.
func (s *ReturnService) Decide(id string, next domain.ReturnStatus, refund int64, note string) error {
	rr, err := s.Returns.ByID(id)
	if err != nil {
		return err
	}
	if !rr.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, rr.Status, next)
	}
	switch next {
	case domain.ReturnApproved:
		// refund as given
	case domain.ReturnCompleted:
		refund = rr.RefundAmount
	default:
		refund = 0
	}
	return s.Returns.UpdateDecision(id, next, refund, note)
}
