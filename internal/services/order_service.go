package services

import (
	"database/sql"
	"errors"

	"aolua/internal/domain"
	"aolua/internal/repos"

	"github.com/jmoiron/sqlx"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderService struct {
	DB      *sqlx.DB
	Orders  *repos.OrderRepo
	Inv     *repos.InventoryRepo
	Coupons *repos.CouponRepo
}

func NewOrderService(db *sqlx.DB, orders *repos.OrderRepo, inv *repos.InventoryRepo, coupons *repos.CouponRepo) *OrderService {
	return &OrderService{DB: db, Orders: orders, Inv: inv, Coupons: coupons}
}

// OrderDetail bundles the order with its lines and status log.
type OrderDetail struct {
	Order   domain.Order
	Items   []repos.ItemRow
	History []domain.OrderStatusHistory
}

// Get loads an order for its owner. Admins pass admin=true and skip the
// ownership check. A foreign order reads as not-found, not as forbidden.
func (s *OrderService) Get(orderID, userID string, admin bool) (OrderDetail, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderDetail{}, ErrOrderNotFound
		}
		return OrderDetail{}, err
	}
	if !admin && o.UserID != userID {
		return OrderDetail{}, ErrOrderNotFound
	}
	items, err := s.Orders.Items(orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	history, err := s.Orders.History(orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{Order: o, Items: items, History: history}, nil
}

func (s *OrderService) ListForUser(userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}

// Transition moves an order through the status machine and appends one
// history row, in a single transaction. Moving to CANCELLED also restocks
// the sold units and refunds the coupon use, so a cancelled order leaves no
// residue in the counters.
func (s *OrderService) Transition(orderID string, next domain.OrderStatus, actor, note string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}

	if _, err := o.Status.Transition(next); err != nil {
		return err
	}

	if err := s.Orders.UpdateStatusTx(tx, orderID, next); err != nil {
		return err
	}
	if err := s.Orders.InsertHistoryTx(tx, &domain.OrderStatusHistory{
		OrderID: orderID,
		Status:  next,
		Note:    note,
		Actor:   actor,
	}); err != nil {
		return err
	}

	if next == domain.StatusCancelled {
		items, err := s.Orders.ItemsTx(tx, orderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := s.Inv.IncrementTx(tx, it.VariantID, it.Quantity); err != nil {
				return err
			}
		}
		if o.CouponID != "" {
			if err := s.Coupons.DecrementUsageTx(tx, o.CouponID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
