package services_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
	"chronoworks/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func addUser(t *testing.T, db *sqlx.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users(id,username,email,hashed_password)
		VALUES(?,?,?,'x:y')`, id, "user-"+id, id+"@test.local")
	if err != nil {
		t.Fatal(err)
	}
}

func addProduct(t *testing.T, db *sqlx.DB, id, name string, price float64, stock int) {
	t.Helper()
	var catID string
	if err := db.Get(&catID, `SELECT id FROM categories LIMIT 1`); err != nil {
		t.Fatal(err)
	}
	_, err := db.Exec(`INSERT INTO products(id,category_id,name,model,price,stock_quantity,is_active)
		VALUES(?,?,?,?,?,?,1)`, id, catID, name, "TST-"+id, price, stock)
	if err != nil {
		t.Fatal(err)
	}
}

func deactivateProduct(t *testing.T, db *sqlx.DB, id string) {
	t.Helper()
	if _, err := db.Exec(`UPDATE products SET is_active = 0 WHERE id = ?`, id); err != nil {
		t.Fatal(err)
	}
}

func cartSvc(db *sqlx.DB) *services.CartService {
	return services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAddMergesQuantities(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 5)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 3); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	items, err := svc.List("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("want one row with qty 5, got %+v", items)
	}
}

func TestAddRejectsMergedTotalOverStock(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 5)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 3); err != nil {
		t.Fatal(err)
	}
	err := svc.Add("u1", "p1", 3)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	// the failed add must not change the row
	items, _ := svc.List("u1")
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("qty should remain 3, got %+v", items)
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 5)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 0); err != nil {
		t.Fatal(err)
	}
	n, err := svc.Count("u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want count 1, got %d", n)
	}
}

func TestAddUnknownOrInactiveProduct(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 5)
	deactivateProduct(t, db, "p1")
	svc := cartSvc(db)

	if err := svc.Add("u1", "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}
	if err := svc.Add("u1", "p1", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive product: want ErrNotFound, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 5)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetQuantity("u1", "p1", 4); err != nil {
		t.Fatal(err)
	}
	items, _ := svc.List("u1")
	if items[0].Quantity != 4 {
		t.Fatalf("want qty 4, got %d", items[0].Quantity)
	}

	// over stock is a hard failure, not a clamp
	if err := svc.SetQuantity("u1", "p1", 6); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	// zero removes the row
	if err := svc.SetQuantity("u1", "p1", 0); err != nil {
		t.Fatal(err)
	}
	items, _ = svc.List("u1")
	if len(items) != 0 {
		t.Fatalf("row should be gone, got %+v", items)
	}

	// updating a missing row is not found
	if err := svc.SetQuantity("u1", "p1", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRemoveMissingRow(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	svc := cartSvc(db)

	if err := svc.Remove("u1", "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSummaryUnderFreeShipping(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 95, 10)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	sum, err := svc.Summary("u1")
	if err != nil {
		t.Fatal(err)
	}
	if !approx(sum.Subtotal, 95) {
		t.Fatalf("subtotal: want 95, got %v", sum.Subtotal)
	}
	if !approx(sum.TaxAmount, 7.60) {
		t.Fatalf("tax: want 7.60, got %v", sum.TaxAmount)
	}
	if !approx(sum.ShippingAmount, 9.99) {
		t.Fatalf("shipping: want 9.99, got %v", sum.ShippingAmount)
	}
	if !approx(sum.TotalAmount, 112.59) {
		t.Fatalf("total: want 112.59, got %v", sum.TotalAmount)
	}
	if sum.FreeShippingEligible {
		t.Fatal("should not be eligible for free shipping")
	}
	if !approx(sum.FreeShippingRemaining, 5.00) {
		t.Fatalf("remaining: want 5.00, got %v", sum.FreeShippingRemaining)
	}
}

func TestSummaryFreeShippingAtThreshold(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 10)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	sum, err := svc.Summary("u1")
	if err != nil {
		t.Fatal(err)
	}
	if !approx(sum.Subtotal, 100) || !approx(sum.ShippingAmount, 0) {
		t.Fatalf("exactly $100 should ship free, got %+v", sum)
	}
	if !sum.FreeShippingEligible || sum.FreeShippingRemaining != 0 {
		t.Fatalf("eligibility flags wrong: %+v", sum)
	}
	if !approx(sum.TotalAmount, 108) {
		t.Fatalf("total: want 108, got %v", sum.TotalAmount)
	}
}

func TestSummaryAboveFreeShipping(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 120, 10)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	sum, err := svc.Summary("u1")
	if err != nil {
		t.Fatal(err)
	}
	if !approx(sum.ShippingAmount, 0) || !approx(sum.TaxAmount, 9.60) || !approx(sum.TotalAmount, 129.60) {
		t.Fatalf("bad summary: %+v", sum)
	}
}

func TestListSkipsDeactivatedProducts(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Keeper", 50, 10)
	addProduct(t, db, "p2", "Discontinued", 30, 10)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add("u1", "p2", 1); err != nil {
		t.Fatal(err)
	}
	deactivateProduct(t, db, "p2")

	items, err := svc.List("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "p1" {
		t.Fatalf("deactivated product should be hidden, got %+v", items)
	}
	// totals follow the visible lines
	sum, _ := svc.Summary("u1")
	if !approx(sum.Subtotal, 50) {
		t.Fatalf("subtotal should only count active lines, got %v", sum.Subtotal)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Test Watch", 50, 10)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear("u1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear("u1"); err != nil {
		t.Fatalf("clearing an empty cart should succeed, got %v", err)
	}
	n, _ := svc.Count("u1")
	if n != 0 {
		t.Fatalf("want empty cart, got count %d", n)
	}
}

func TestValidateForCheckout(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addProduct(t, db, "p1", "Gone", 50, 10)
	addProduct(t, db, "p2", "Short Stock", 30, 10)
	svc := cartSvc(db)

	// empty cart
	err := svc.ValidateForCheckout("u1")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 1 || verr.Issues[0] != "Cart is empty" {
		t.Fatalf("want empty-cart issue, got %v", err)
	}

	if err := svc.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add("u1", "p2", 5); err != nil {
		t.Fatal(err)
	}
	deactivateProduct(t, db, "p1")
	if _, err := db.Exec(`UPDATE products SET stock_quantity = 2 WHERE id = 'p2'`); err != nil {
		t.Fatal(err)
	}

	err = svc.ValidateForCheckout("u1")
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("want both issues reported, got %v", verr.Issues)
	}
	if verr.Issues[0] != "Product p1 is no longer available" {
		t.Fatalf("bad unavailable message: %q", verr.Issues[0])
	}
	if verr.Issues[1] != "Short Stock has insufficient stock (available: 2, requested: 5)" {
		t.Fatalf("bad stock message: %q", verr.Issues[1])
	}
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	db := memdb(t)
	addUser(t, db, "u1")
	addUser(t, db, "u2")
	addProduct(t, db, "p1", "Test Watch", 50, 10)
	svc := cartSvc(db)

	if err := svc.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	n, _ := svc.Count("u2")
	if n != 0 {
		t.Fatalf("u2 cart should be empty, got %d", n)
	}
}
