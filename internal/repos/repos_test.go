package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"aolua/internal/domain"
	"aolua/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDecrementTxHoldsTheFloor(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	// v-ad-do-m starts at 5. Reserve 2 so only 3 are sellable.
	db.MustExec(`UPDATE inventory SET reserved=2 WHERE variant_id='v-ad-do-m'`)

	tx := db.MustBegin()
	if err := inv.DecrementTx(tx, "v-ad-do-m", 3); err != nil {
		t.Fatalf("decrement within available: %v", err)
	}
	// 5-3=2 on hand, 2 reserved: nothing sellable remains.
	if err := inv.DecrementTx(tx, "v-ad-do-m", 1); err == nil {
		t.Fatal("decrement below reserved floor must fail")
	}
	_ = tx.Rollback()

	// The rollback leaves the original quantity in place.
	row, err := inv.Get("v-ad-do-m")
	if err != nil {
		t.Fatal(err)
	}
	if row.Quantity != 5 {
		t.Fatalf("want quantity 5 after rollback, got %d", row.Quantity)
	}
}

func TestCouponIncrementRespectsLimit(t *testing.T) {
	db := memdb(t)
	coupons := repos.NewCouponRepo(db)

	// MOI50 allows 100 uses; pin it to the edge.
	db.MustExec(`UPDATE coupons SET used_count=99 WHERE id='cp-moi50'`)

	tx := db.MustBegin()
	if err := coupons.IncrementUsageTx(tx, "cp-moi50"); err != nil {
		t.Fatalf("use #100: %v", err)
	}
	if err := coupons.IncrementUsageTx(tx, "cp-moi50"); err == nil {
		t.Fatal("use #101 must be refused")
	}
	_ = tx.Rollback()
}

func TestCouponDecrementStopsAtZero(t *testing.T) {
	db := memdb(t)
	coupons := repos.NewCouponRepo(db)

	tx := db.MustBegin()
	// used_count starts at 0: releasing must be a no-op, not negative.
	_ = coupons.DecrementUsageTx(tx, "cp-moi50")
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	cp, err := coupons.ByCode("MOI50")
	if err != nil {
		t.Fatal(err)
	}
	if cp.UsedCount != 0 {
		t.Fatalf("used_count must not go negative, got %d", cp.UsedCount)
	}
}

func TestSKUUniqueCaseInsensitive(t *testing.T) {
	db := memdb(t)
	prods := repos.NewProductRepo(db)

	v := domain.Variant{
		ID: "v-thu", ProductID: "ad-truyen-thong",
		SKU: "ad-do-s", // lowercase collides with seeded AD-DO-S
		Color: "Đỏ", Size: "S",
	}
	err := prods.CreateVariant(&v, domain.Pricing{BasePrice: 100000}, 1)
	if !errors.Is(err, repos.ErrSKUConflict) {
		t.Fatalf("want ErrSKUConflict, got %v", err)
	}

	v.SKU = "AD-XANH-S"
	if err := prods.CreateVariant(&v, domain.Pricing{BasePrice: 100000}, 1); err != nil {
		t.Fatalf("fresh sku: %v", err)
	}

	d, err := prods.GetVariant("v-thu")
	if err != nil {
		t.Fatal(err)
	}
	if d.Available() != 1 || d.Pricing().BasePrice != 100000 {
		t.Fatalf("variant create must seed pricing and stock: %+v", d)
	}
}

func TestProductDeleteBlockedByOrderHistory(t *testing.T) {
	db := memdb(t)
	prods := repos.NewProductRepo(db)

	// Simulate an old order line referencing a variant of the product.
	db.MustExec(`INSERT INTO orders(id,order_number,user_id,address_id,subtotal,shipping_fee,total)
	             VALUES('o-cu','DH250101-XXXXXX','u-lan','addr-lan-1',790000,0,790000)`)
	db.MustExec(`INSERT INTO order_items(id,order_id,variant_id,quantity,unit_price)
	             VALUES('oi-cu','o-cu','v-dam-be-m',1,790000)`)

	err := prods.Delete("dam-linen-01")
	if !errors.Is(err, repos.ErrVariantInUse) {
		t.Fatalf("want ErrVariantInUse, got %v", err)
	}

	// A product with no order history deletes cleanly, variants included.
	if err := prods.Delete("sm-lua-01"); err != nil {
		t.Fatal(err)
	}
	if _, err := prods.Get("sm-lua-01"); err == nil {
		t.Fatal("product should be gone")
	}
}

func TestOrderNumberUnique(t *testing.T) {
	db := memdb(t)
	db.MustExec(`INSERT INTO orders(id,order_number,user_id,address_id,subtotal,shipping_fee,total)
	             VALUES('o-1','DH250101-AAAAAA','u-lan','addr-lan-1',1,0,1)`)
	_, err := db.Exec(`INSERT INTO orders(id,order_number,user_id,address_id,subtotal,shipping_fee,total)
	             VALUES('o-2','DH250101-AAAAAA','u-lan','addr-lan-1',1,0,1)`)
	if err == nil {
		t.Fatal("duplicate order_number must violate the unique constraint")
	}
}
