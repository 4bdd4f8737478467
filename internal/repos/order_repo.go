package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"chronoworks/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, order_number, user_id, total_amount, tax_amount, shipping_amount, discount_amount,
  status, payment_status, payment_method, payment_reference,
  shipping_name, shipping_email, shipping_phone, shipping_address,
  shipping_city, shipping_state, shipping_zip, shipping_country,
  created_at, COALESCE(updated_at,'') AS updated_at, shipped_at, delivered_at`

// OrderLineRow is an order line joined with current product data for display.
type OrderLineRow struct {
	ProductID       string  `db:"product_id" json:"product_id"`
	ProductName     string  `db:"product_name" json:"product_name"`
	ProductModel    string  `db:"product_model" json:"product_model"`
	ProductImage    string  `db:"product_image" json:"product_image"`
	Quantity        int     `db:"quantity" json:"quantity"`
	PriceAtPurchase float64 `db:"price_at_purchase" json:"price_at_purchase"`
}

// UserOrderSummary is one row of a user's order history.
type UserOrderSummary struct {
	ID             string  `db:"id" json:"id"`
	OrderNumber    string  `db:"order_number" json:"order_number"`
	TotalAmount    float64 `db:"total_amount" json:"total_amount"`
	TaxAmount      float64 `db:"tax_amount" json:"tax_amount"`
	ShippingAmount float64 `db:"shipping_amount" json:"shipping_amount"`
	Status         string  `db:"status" json:"status"`
	PaymentStatus  string  `db:"payment_status" json:"payment_status"`
	PaymentMethod  string  `db:"payment_method" json:"payment_method"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
	UpdatedAt      string  `db:"updated_at" json:"updated_at"`
	ShippedAt      string  `db:"shipped_at" json:"shipped_at"`
	DeliveredAt    string  `db:"delivered_at" json:"delivered_at"`
	ItemCount      int     `db:"item_count" json:"item_count"`
}

// AdminOrderRow annotates an order with the owning user for the admin list.
type AdminOrderRow struct {
	ID            string  `db:"id" json:"id"`
	OrderNumber   string  `db:"order_number" json:"order_number"`
	UserID        string  `db:"user_id" json:"user_id"`
	UserName      string  `db:"user_name" json:"user_name"`
	UserEmail     string  `db:"user_email" json:"user_email"`
	TotalAmount   float64 `db:"total_amount" json:"total_amount"`
	Status        string  `db:"status" json:"status"`
	PaymentStatus string  `db:"payment_status" json:"payment_status"`
	PaymentMethod string  `db:"payment_method" json:"payment_method"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
	UpdatedAt     string  `db:"updated_at" json:"updated_at"`
	ItemCount     int     `db:"item_count" json:"item_count"`
}

func (r *OrderRepo) Insert(ext sqlx.Ext, o *domain.Order) error {
	_, err := ext.Exec(`
	  INSERT INTO orders(
	    id, order_number, user_id, total_amount, tax_amount, shipping_amount, discount_amount,
	    status, payment_status, payment_method, payment_reference,
	    shipping_name, shipping_email, shipping_phone, shipping_address,
	    shipping_city, shipping_state, shipping_zip, shipping_country)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, o.UserID, o.TotalAmount, o.TaxAmount, o.ShippingAmount, o.DiscountAmount,
		o.Status, o.PaymentStatus, o.PaymentMethod, o.PaymentRef,
		o.Name, o.Email, o.Phone, o.Address,
		o.City, o.State, o.Zip, o.Country)
	return err
}

func (r *OrderRepo) InsertLine(ext sqlx.Ext, l domain.OrderLine) error {
	_, err := ext.Exec(`
	  INSERT INTO order_items(order_id, product_id, quantity, price_at_purchase)
	  VALUES(?,?,?,?)`, l.OrderID, l.ProductID, l.Quantity, l.PriceAtPurchase)
	return err
}

// Get fetches one order; a non-empty userID scopes the lookup to that owner.
func (r *OrderRepo) Get(q sqlx.Queryer, orderID, userID string) (domain.Order, error) {
	var o domain.Order
	query := `SELECT ` + orderCols + ` FROM orders WHERE id = ?`
	args := []any{orderID}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	err := sqlx.Get(q, &o, query, args...)
	if err == sql.ErrNoRows {
		return o, domain.NotFoundf("order %s", orderID)
	}
	return o, err
}

func (r *OrderRepo) Lines(q sqlx.Queryer, orderID string) ([]domain.OrderLine, error) {
	lines := []domain.OrderLine{}
	err := sqlx.Select(q, &lines, `
	  SELECT order_id, product_id, quantity, price_at_purchase
	  FROM order_items WHERE order_id = ?`, orderID)
	return lines, err
}

func (r *OrderRepo) LinesJoined(orderID string) ([]OrderLineRow, error) {
	rows := []OrderLineRow{}
	err := r.db.Select(&rows, `
	  SELECT oi.product_id, p.name AS product_name, p.model AS product_model,
	         p.primary_image_url AS product_image, oi.quantity, oi.price_at_purchase
	  FROM order_items oi JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name`, orderID)
	return rows, err
}

func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]UserOrderSummary, error) {
	out := []UserOrderSummary{}
	err := r.db.Select(&out, `
	  SELECT o.id, o.order_number, o.total_amount, o.tax_amount, o.shipping_amount,
	         o.status, o.payment_status, o.payment_method,
	         o.created_at, COALESCE(o.updated_at,'') AS updated_at, o.shipped_at, o.delivered_at,
	         (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
	  FROM orders o
	  WHERE o.user_id = ?
	  ORDER BY datetime(o.created_at) DESC, o.rowid DESC
	  LIMIT ? OFFSET ?`, userID, limit, offset)
	return out, err
}

func (r *OrderRepo) ListAll(status string, limit, offset int) ([]AdminOrderRow, error) {
	query := `
	  SELECT o.id, o.order_number, o.user_id,
	         COALESCE(NULLIF(u.full_name,''), u.username) AS user_name, u.email AS user_email,
	         o.total_amount, o.status, o.payment_status, o.payment_method,
	         o.created_at, COALESCE(o.updated_at,'') AS updated_at,
	         (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
	  FROM orders o JOIN users u ON u.id = o.user_id`
	args := []any{}
	if status != "" {
		query += ` WHERE o.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY datetime(o.created_at) DESC, o.rowid DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []AdminOrderRow{}
	err := r.db.Select(&out, query, args...)
	return out, err
}

// UpdateStatus applies a status change and its side effects in one statement:
// shipped/delivered stamp their timestamps, a payment reference marks the
// order paid. The status value must already be validated by the caller.
func (r *OrderRepo) UpdateStatus(ext sqlx.Ext, orderID, status, paymentRef string) error {
	query := `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP`
	args := []any{status}
	if paymentRef != "" {
		query += `, payment_reference = ?, payment_status = ?`
		args = append(args, paymentRef, domain.PaymentPaid)
	}
	switch status {
	case domain.StatusShipped:
		query += `, shipped_at = CURRENT_TIMESTAMP`
	case domain.StatusDelivered:
		query += `, delivered_at = CURRENT_TIMESTAMP`
	}
	query += ` WHERE id = ?`
	args = append(args, orderID)

	res, err := ext.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("order %s", orderID)
	}
	return nil
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	TotalOrders     int           `json:"total_orders"`
	PendingOrders   int           `json:"pending_orders"`
	DeliveredOrders int           `json:"delivered_orders"`
	TotalRevenue    float64       `json:"total_revenue"`
	RecentOrders    []RecentOrder `json:"recent_orders"`
}

type RecentOrder struct {
	ID          string  `db:"id" json:"id"`
	OrderNumber string  `db:"order_number" json:"order_number"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	Status      string  `db:"status" json:"status"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

func (r *OrderRepo) Statistics() (Stats, error) {
	var s Stats
	if err := r.db.Get(&s.TotalOrders, `SELECT COUNT(*) FROM orders`); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.PendingOrders, `SELECT COUNT(*) FROM orders WHERE status = ?`, domain.StatusPending); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.DeliveredOrders, `SELECT COUNT(*) FROM orders WHERE status = ?`, domain.StatusDelivered); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.TotalRevenue, `
	  SELECT COALESCE(SUM(total_amount),0) FROM orders WHERE payment_status = ?`, domain.PaymentPaid); err != nil {
		return s, err
	}
	s.RecentOrders = []RecentOrder{}
	err := r.db.Select(&s.RecentOrders, `
	  SELECT id, order_number, total_amount, status, created_at
	  FROM orders ORDER BY datetime(created_at) DESC, rowid DESC LIMIT 5`)
	return s, err
}

func (r *OrderRepo) DB() *sqlx.DB { return r.db }
