package services_test

import (
	"errors"
	"testing"

	"aolua/internal/domain"
	"aolua/internal/repos"
	"aolua/internal/services"
)

func deliver(t *testing.T, e *testEnv, orderID string) {
	t.Helper()
	for _, next := range []domain.OrderStatus{
		domain.StatusConfirmed, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered,
	} {
		if err := e.orderSvc.Transition(orderID, next, "u-admin", ""); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReturnOnlyAfterDelivery(t *testing.T) {
	e := newTestEnv(t)
	returnSvc := services.NewReturnService(repos.NewReturnRepo(e.db), e.orders)
	res := placeOrder(t, e, "")

	_, err := returnSvc.Submit("u-lan", res.OrderID, domain.ReturnReasonDefective, "rách đường chỉ", nil)
	if !errors.Is(err, services.ErrReturnNotAllowed) {
		t.Fatalf("pending order must not be returnable, got %v", err)
	}

	deliver(t, e, res.OrderID)

	rr, err := returnSvc.Submit("u-lan", res.OrderID, domain.ReturnReasonDefective, "rách đường chỉ",
		[]string{"returns/r1/anh1.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if rr.Status != domain.ReturnPending {
		t.Fatalf("want PENDING, got %s", rr.Status)
	}

	// Someone else's order reads as not found.
	_, err = returnSvc.Submit("u-minh", res.OrderID, domain.ReturnReasonDefective, "", nil)
	if !errors.Is(err, services.ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound, got %v", err)
	}
}

func TestReturnDecisionMachine(t *testing.T) {
	e := newTestEnv(t)
	returnRepo := repos.NewReturnRepo(e.db)
	returnSvc := services.NewReturnService(returnRepo, e.orders)
	res := placeOrder(t, e, "")
	deliver(t, e, res.OrderID)

	rr, err := returnSvc.Submit("u-lan", res.OrderID, domain.ReturnReasonWrongItem, "giao nhầm size", nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := returnSvc.Decide(rr.ID, domain.ReturnApproved, 1580000, "hoàn toàn bộ"); err != nil {
		t.Fatal(err)
	}
	got, err := returnRepo.ByID(rr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.ReturnApproved || got.RefundAmount != 1580000 {
		t.Fatalf("bad decision state: %+v", got)
	}

	// Completion keeps the approved refund.
	if err := returnSvc.Decide(rr.ID, domain.ReturnCompleted, 0, "đã chuyển khoản"); err != nil {
		t.Fatal(err)
	}
	got, _ = returnRepo.ByID(rr.ID)
	if got.RefundAmount != 1580000 {
		t.Fatalf("completion must preserve the refund, got %d", got.RefundAmount)
	}

	// Completed is final.
	err = returnSvc.Decide(rr.ID, domain.ReturnApproved, 0, "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestReviewRequiresPurchase(t *testing.T) {
	e := newTestEnv(t)
	reviewSvc := services.NewReviewService(repos.NewReviewRepo(e.db))

	_, err := reviewSvc.Submit("u-minh", "dam-linen-01", 5, "đẹp lắm")
	if !errors.Is(err, services.ErrNotPurchased) {
		t.Fatalf("want ErrNotPurchased, got %v", err)
	}

	res := placeOrder(t, e, "") // u-lan buys v-dam-be-m
	deliver(t, e, res.OrderID)

	rv, err := reviewSvc.Submit("u-lan", "dam-linen-01", 5, "vải mát, lên form chuẩn")
	if err != nil {
		t.Fatal(err)
	}
	if rv.Approved {
		t.Fatal("new reviews start unapproved")
	}

	_, err = reviewSvc.Submit("u-lan", "dam-linen-01", 9, "")
	if !errors.Is(err, services.ErrInvalidRating) {
		t.Fatalf("want ErrInvalidRating, got %v", err)
	}

	// Moderation flips visibility.
	if err := reviewSvc.Moderate(rv.ID, true, "cảm ơn bạn"); err != nil {
		t.Fatal(err)
	}
	rows, err := repos.NewReviewRepo(e.db).ListApproved("dam-linen-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Response != "cảm ơn bạn" {
		t.Fatalf("bad approved list: %+v", rows)
	}
}
