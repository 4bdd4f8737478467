package services_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/jmoiron/sqlx"

	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
	"chronoworks/internal/services"
)

var orderNumberRe = regexp.MustCompile(`^CW\d{8}[0-9A-F]{8}$`)

type orderFixture struct {
	db    *sqlx.DB
	cart  *services.CartService
	order *services.OrderService
	prods *repos.ProductRepo
}

func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	cart := services.NewCartService(cartRepo, prodRepo)
	order := services.NewOrderService(cart, cartRepo, prodRepo, orderRepo)
	return orderFixture{db: db, cart: cart, order: order, prods: prodRepo}
}

func ship() domain.ShippingInfo {
	return domain.ShippingInfo{
		Name:    "Test Buyer",
		Email:   "buyer@test.local",
		Address: "1 Main St",
		City:    "College Park",
		State:   "MD",
		Zip:     "20742",
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)
	addProduct(t, f.db, "p2", "Chrono B", 30, 3)

	if err := f.cart.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := f.cart.Add("u1", "p2", 1); err != nil {
		t.Fatal(err)
	}

	o, err := f.order.CreateFromCart("u1", ship(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !orderNumberRe.MatchString(o.OrderNumber) {
		t.Fatalf("bad order number: %q", o.OrderNumber)
	}
	// subtotal 110 -> free shipping, 8% tax
	if !approx(o.TaxAmount, 8.80) || !approx(o.ShippingAmount, 0) || !approx(o.TotalAmount, 118.80) {
		t.Fatalf("bad totals: %+v", o)
	}
	if o.Status != domain.StatusPending || o.PaymentStatus != domain.PaymentPending {
		t.Fatalf("new orders start pending/pending, got %s/%s", o.Status, o.PaymentStatus)
	}
	if o.PaymentMethod != "stripe" {
		t.Fatalf("empty payment method should default to stripe, got %q", o.PaymentMethod)
	}
	if o.Country != "USA" {
		t.Fatalf("empty country should default to USA, got %q", o.Country)
	}

	// stock decremented
	if q, _ := f.prods.Stock("p1"); q != 8 {
		t.Fatalf("p1 stock: want 8, got %d", q)
	}
	if q, _ := f.prods.Stock("p2"); q != 2 {
		t.Fatalf("p2 stock: want 2, got %d", q)
	}

	// cart cleared
	if n, _ := f.cart.Count("u1"); n != 0 {
		t.Fatalf("cart should be empty after checkout, got %d", n)
	}

	// lines persisted with quantity and purchase price
	got, lines, err := f.order.GetByID(o.ID, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.OrderNumber != o.OrderNumber {
		t.Fatalf("order mismatch: %q vs %q", got.OrderNumber, o.OrderNumber)
	}
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	byID := map[string]repos.OrderLineRow{}
	for _, l := range lines {
		byID[l.ProductID] = l
	}
	if l := byID["p1"]; l.Quantity != 2 || !approx(l.PriceAtPurchase, 40) {
		t.Fatalf("bad p1 line: %+v", l)
	}
	if l := byID["p2"]; l.Quantity != 1 || !approx(l.PriceAtPurchase, 30) {
		t.Fatalf("bad p2 line: %+v", l)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")

	_, err := f.order.CreateFromCart("u1", ship(), "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Issues[0] != "Cart is empty" {
		t.Fatalf("want empty-cart validation error, got %v", err)
	}
}

func TestCheckoutFailsWhenStockShrankSinceAdd(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)
	addProduct(t, f.db, "p2", "Chrono B", 30, 5)

	if err := f.cart.Add("u1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := f.cart.Add("u1", "p2", 5); err != nil {
		t.Fatal(err)
	}
	// another buyer got there first
	if _, err := f.db.Exec(`UPDATE products SET stock_quantity = 1 WHERE id = 'p2'`); err != nil {
		t.Fatal(err)
	}

	_, err := f.order.CreateFromCart("u1", ship(), "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	// nothing committed: no order, p1 untouched, cart intact
	var n int
	if err := f.db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("no order should exist, got %d", n)
	}
	if q, _ := f.prods.Stock("p1"); q != 10 {
		t.Fatalf("p1 stock should be untouched, got %d", q)
	}
	if c, _ := f.cart.Count("u1"); c != 7 {
		t.Fatalf("cart should be intact, got count %d", c)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)

	if err := f.cart.Add("u1", "p1", 3); err != nil {
		t.Fatal(err)
	}
	o, err := f.order.CreateFromCart("u1", ship(), "card")
	if err != nil {
		t.Fatal(err)
	}
	if q, _ := f.prods.Stock("p1"); q != 7 {
		t.Fatalf("stock after checkout: want 7, got %d", q)
	}

	if err := f.order.Cancel(o.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	if q, _ := f.prods.Stock("p1"); q != 10 {
		t.Fatalf("stock after cancel: want 10, got %d", q)
	}
	got, _, err := f.order.GetByID(o.ID, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("want cancelled, got %s", got.Status)
	}

	// cancelling twice must not restore twice
	if err := f.order.Cancel(o.ID, "u1"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("second cancel: want ErrInvalidStatus, got %v", err)
	}
	if q, _ := f.prods.Stock("p1"); q != 10 {
		t.Fatalf("stock must not double-restore, got %d", q)
	}
}

func TestCancelBlockedOnceShipped(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)

	if err := f.cart.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	o, err := f.order.CreateFromCart("u1", ship(), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.order.UpdateStatus(o.ID, domain.StatusShipped, ""); err != nil {
		t.Fatal(err)
	}
	if err := f.order.Cancel(o.ID, "u1"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
	if q, _ := f.prods.Stock("p1"); q != 9 {
		t.Fatalf("stock must stay decremented, got %d", q)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)

	if err := f.cart.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	o, err := f.order.CreateFromCart("u1", ship(), "")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.order.UpdateStatus(o.ID, "teleported", ""); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
	if err := f.order.UpdateStatus("missing", domain.StatusConfirmed, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	// payment reference marks the order paid
	if err := f.order.UpdateStatus(o.ID, domain.StatusConfirmed, "ch_123"); err != nil {
		t.Fatal(err)
	}
	got, _, err := f.order.GetByID(o.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusConfirmed || got.PaymentStatus != domain.PaymentPaid || got.PaymentRef != "ch_123" {
		t.Fatalf("bad state after paid update: %+v", got)
	}

	// shipped and delivered stamp their timestamps
	if err := f.order.UpdateStatus(o.ID, domain.StatusShipped, ""); err != nil {
		t.Fatal(err)
	}
	if err := f.order.UpdateStatus(o.ID, domain.StatusDelivered, ""); err != nil {
		t.Fatal(err)
	}
	got, _, _ = f.order.GetByID(o.ID, "")
	if got.ShippedAt == "" || got.DeliveredAt == "" {
		t.Fatalf("timestamps should be stamped: %+v", got)
	}
}

func TestOrderLookupIsScopedToOwner(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addUser(t, f.db, "u2")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)

	if err := f.cart.Add("u1", "p1", 1); err != nil {
		t.Fatal(err)
	}
	o, err := f.order.CreateFromCart("u1", ship(), "")
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := f.order.GetByID(o.ID, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("another user's lookup should miss, got %v", err)
	}
	if _, _, err := f.order.GetByID(o.ID, ""); err != nil {
		t.Fatalf("unscoped lookup should succeed, got %v", err)
	}
	if err := f.order.Cancel(o.ID, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("another user must not cancel, got %v", err)
	}
}

func TestUserOrderHistoryAndAdminList(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 10)

	for i := 0; i < 2; i++ {
		if err := f.cart.Add("u1", "p1", 1); err != nil {
			t.Fatal(err)
		}
		if _, err := f.order.CreateFromCart("u1", ship(), ""); err != nil {
			t.Fatal(err)
		}
	}

	hist, err := f.order.UserOrders("u1", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("want 2 orders, got %d", len(hist))
	}
	if hist[0].ItemCount != 1 {
		t.Fatalf("want item count 1, got %d", hist[0].ItemCount)
	}

	all, err := f.order.ListAll("", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].UserEmail != "u1@test.local" {
		t.Fatalf("bad admin list: %+v", all)
	}

	pend, err := f.order.ListAll(domain.StatusPending, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pend) != 2 {
		t.Fatalf("status filter: want 2, got %d", len(pend))
	}
	if _, err := f.order.ListAll("bogus", 0, 0); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
}

func TestStatistics(t *testing.T) {
	f := newOrderFixture(t)
	addUser(t, f.db, "u1")
	addProduct(t, f.db, "p1", "Chrono A", 40, 20)

	var ids []string
	for i := 0; i < 3; i++ {
		if err := f.cart.Add("u1", "p1", 1); err != nil {
			t.Fatal(err)
		}
		o, err := f.order.CreateFromCart("u1", ship(), "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, o.ID)
	}
	if err := f.order.UpdateStatus(ids[0], domain.StatusDelivered, "ch_1"); err != nil {
		t.Fatal(err)
	}

	stats, err := f.order.Statistics()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalOrders != 3 || stats.PendingOrders != 2 || stats.DeliveredOrders != 1 {
		t.Fatalf("bad counts: %+v", stats)
	}
	// revenue counts paid orders only: 40 + tax 3.20 + shipping 9.99
	if !approx(stats.TotalRevenue, 53.19) {
		t.Fatalf("revenue: want 53.19, got %v", stats.TotalRevenue)
	}
	if len(stats.RecentOrders) != 3 {
		t.Fatalf("want 3 recent orders, got %d", len(stats.RecentOrders))
	}
}
