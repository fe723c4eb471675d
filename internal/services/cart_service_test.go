package services_test

import (
	"errors"
	"testing"

	"aolua/internal/services"
)

func TestGuestCartLifecycle(t *testing.T) {
	e := newTestEnv(t)
	guest := services.Identity{GuestToken: "tok-abc"}

	cv, err := e.cartSvc.AddItem(guest, "v-ad-do-s", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Subtotal != 1850000 {
		t.Fatalf("bad guest cart: %+v", cv)
	}

	// The same token resolves to the same cart.
	again, err := e.cartSvc.View(guest)
	if err != nil {
		t.Fatal(err)
	}
	if again.Cart.ID != cv.Cart.ID {
		t.Fatal("token must be stable across requests")
	}

	// A different token is just a fresh empty cart, never an error.
	fresh, err := e.cartSvc.View(services.Identity{GuestToken: "tok-khac"})
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh.Items) != 0 {
		t.Fatal("unknown token must yield an empty cart")
	}
}

func TestUnknownUserRejected(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.cartSvc.View(services.Identity{UserID: "u-khong-ton-tai"})
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestAddItemAccumulates(t *testing.T) {
	e := newTestEnv(t)
	lan := services.Identity{UserID: "u-lan"}

	if _, err := e.cartSvc.AddItem(lan, "v-dam-be-m", 2); err != nil {
		t.Fatal(err)
	}
	cv, err := e.cartSvc.AddItem(lan, "v-dam-be-m", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Quantity != 5 {
		t.Fatalf("same variant must merge into one line, got %+v", cv.Items)
	}
}

func TestZeroQuantityRemovesLine(t *testing.T) {
	e := newTestEnv(t)
	lan := services.Identity{UserID: "u-lan"}

	cv, err := e.cartSvc.AddItem(lan, "v-dam-be-m", 2)
	if err != nil {
		t.Fatal(err)
	}
	itemID := cv.Items[0].ItemID

	cv, err = e.cartSvc.UpdateQuantity(lan, itemID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("quantity 0 must delete the line, got %+v", cv.Items)
	}
}

func TestCartMergeOnLogin(t *testing.T) {
	e := newTestEnv(t)
	guest := services.Identity{GuestToken: "tok-merge"}
	lan := services.Identity{UserID: "u-lan"}

	if _, err := e.cartSvc.AddItem(lan, "v-dam-be-m", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.cartSvc.AddItem(guest, "v-dam-be-m", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.cartSvc.AddItem(guest, "v-ad-do-s", 1); err != nil {
		t.Fatal(err)
	}

	if err := e.carts.MergeForLogin("u-lan", "tok-merge"); err != nil {
		t.Fatal(err)
	}

	cv, err := e.cartSvc.View(lan)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 2 {
		t.Fatalf("want 2 merged lines, got %d", len(cv.Items))
	}
	for _, it := range cv.Items {
		if it.VariantID == "v-dam-be-m" && it.Quantity != 3 {
			t.Fatalf("overlapping line must sum quantities, got %d", it.Quantity)
		}
	}

	// Guest cart must be gone.
	gone, err := e.cartSvc.View(services.Identity{GuestToken: "tok-merge"})
	if err != nil {
		t.Fatal(err)
	}
	if len(gone.Items) != 0 {
		t.Fatal("guest cart must be emptied by the merge")
	}
}
