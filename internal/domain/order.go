package domain

import (
	"errors"
	"fmt"
)

// OrderStatus is the closed set of order lifecycle states. The forward path
// is PENDING → CONFIRMED → PROCESSING → SHIPPED → DELIVERED; CANCELLED is
// reachable from any non-terminal state. DELIVERED and CANCELLED accept no
// further transitions.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var nextStatus = map[OrderStatus]OrderStatus{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// ParseOrderStatus validates a raw string against the closed set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is legal: one step
// forward on the linear path, or sideways to CANCELLED from any non-terminal
// state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return nextStatus[s] == next
}

// Transition returns next if the move is legal, otherwise ErrInvalidTransition.
func (s OrderStatus) Transition(next OrderStatus) (OrderStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// Order is the immutable snapshot of a completed checkout. The monetary
// fields are computed once at creation and never recomputed.
type Order struct {
	ID          string      `db:"id"`
	OrderNumber string      `db:"order_number"`
	UserID      string      `db:"user_id"`
	AddressID   string      `db:"address_id"`
	Status      OrderStatus `db:"status"`
	Subtotal    int64       `db:"subtotal"`
	ShippingFee int64       `db:"shipping_fee"`
	Discount    int64       `db:"discount"`
	Total       int64       `db:"total"`
	CouponID    string      `db:"coupon_id"` // "" when no coupon applied
	Payment     string      `db:"payment_method"`
	Note        string      `db:"note"`       // customer note
	AdminNote   string      `db:"admin_note"` // internal
	CreatedAt   string      `db:"created_at"`
}

// OrderItem freezes the unit price at purchase time; later pricing changes
// never alter it.
type OrderItem struct {
	ID        string `db:"id"`
	OrderID   string `db:"order_id"`
	VariantID string `db:"variant_id"`
	Quantity  int    `db:"quantity"`
	UnitPrice int64  `db:"unit_price"`
}

// OrderStatusHistory is an append-only transition log, starting with the
// PENDING entry written at order birth.
type OrderStatusHistory struct {
	ID        string      `db:"id"`
	OrderID   string      `db:"order_id"`
	Status    OrderStatus `db:"status"`
	Note      string      `db:"note"`
	Actor     string      `db:"actor"` // user id, or "system"
	CreatedAt string      `db:"created_at"`
}
