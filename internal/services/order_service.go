package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
)

type OrderService struct {
	Cart   *CartService
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewOrderService(cart *CartService, carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Cart: cart, Carts: carts, Prods: prods, Orders: orders}
}

// orderNumber builds the human-facing id: "CW" + date + 8 uppercase hex
// chars. Collisions are vanishingly unlikely and not re-checked; the unique
// index on order_number is the backstop.
func orderNumber() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "CW" + time.Now().Format("20060102") + strings.ToUpper(hex.EncodeToString(buf))
}

// CreateFromCart converts a validated cart into an order. The whole
// conversion runs in one transaction: order header, per-line conditional
// stock decrement, order lines, cart clear. Any line failing its stock check
// rolls everything back.
func (s *OrderService) CreateFromCart(userID string, ship domain.ShippingInfo, paymentMethod string) (*domain.Order, error) {
	if err := s.Cart.ValidateForCheckout(userID); err != nil {
		return nil, err
	}
	sum, err := s.Cart.Summary(userID)
	if err != nil {
		return nil, err
	}
	if len(sum.Items) == 0 {
		return nil, &domain.ValidationError{Issues: []string{"Cart is empty"}}
	}

	if paymentMethod == "" {
		paymentMethod = "stripe"
	}
	if ship.Country == "" {
		ship.Country = "USA"
	}

	o := &domain.Order{
		ID:             uuid.NewString(),
		OrderNumber:    orderNumber(),
		UserID:         userID,
		TotalAmount:    sum.TotalAmount,
		TaxAmount:      sum.TaxAmount,
		ShippingAmount: sum.ShippingAmount,
		DiscountAmount: 0,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentPending,
		PaymentMethod:  paymentMethod,
		ShippingInfo:   ship,
	}

	tx, err := s.Orders.DB().Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Orders.Insert(tx, o); err != nil {
		return nil, err
	}
	for _, it := range sum.Items {
		// re-check against a concurrent checkout since validation ran
		if err := s.Prods.Decrement(tx, it.ProductID, it.Quantity); err != nil {
			return nil, fmt.Errorf("insufficient stock for %s: %w", it.ProductName, err)
		}
		line := domain.OrderLine{
			OrderID:         o.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.ProductPrice,
		}
		if err := s.Orders.InsertLine(tx, line); err != nil {
			return nil, err
		}
	}
	if err := s.Carts.Clear(tx, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) UserOrders(userID string, limit, offset int) ([]repos.UserOrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Orders.ListByUser(userID, limit, offset)
}

// GetByID fetches one order with its lines. A non-empty userID scopes the
// lookup to that owner.
func (s *OrderService) GetByID(orderID, userID string) (domain.Order, []repos.OrderLineRow, error) {
	o, err := s.Orders.Get(s.Orders.DB(), orderID, userID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	lines, err := s.Orders.LinesJoined(o.ID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, lines, nil
}

// UpdateStatus sets any member of the status enum; shipped/delivered stamp
// their timestamps, and a payment reference marks the order paid. No
// adjacency rules beyond the enum check.
func (s *OrderService) UpdateStatus(orderID, status, paymentRef string) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("status %q: %w", status, domain.ErrInvalidStatus)
	}
	return s.Orders.UpdateStatus(s.Orders.DB(), orderID, status, paymentRef)
}

func (s *OrderService) ListAll(status string, limit, offset int) ([]repos.AdminOrderRow, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidStatus)
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Orders.ListAll(status, limit, offset)
}

func (s *OrderService) Statistics() (repos.Stats, error) {
	return s.Orders.Statistics()
}

// Cancel flips a non-terminal order to cancelled and restores the purchased
// quantity of every line, in one transaction. Shipped, delivered, and
// already-cancelled orders cannot be cancelled.
func (s *OrderService) Cancel(orderID, userID string) error {
	tx, err := s.Orders.DB().Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.Get(tx, orderID, userID)
	if err != nil {
		return err
	}
	switch o.Status {
	case domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled:
		return fmt.Errorf("order %s cannot be cancelled (status %s): %w",
			o.OrderNumber, o.Status, domain.ErrInvalidStatus)
	}

	lines, err := s.Orders.Lines(tx, o.ID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if err := s.Prods.Restore(tx, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}
	if err := s.Orders.UpdateStatus(tx, o.ID, domain.StatusCancelled, ""); err != nil {
		return err
	}
	return tx.Commit()
}
