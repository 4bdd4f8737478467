package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chronoworks/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartRow is a cart item joined with live product data.
type CartRow struct {
	ID             string  `db:"id"`
	ProductID      string  `db:"product_id"`
	ProductName    string  `db:"product_name"`
	ProductModel   string  `db:"product_model"`
	ProductPrice   float64 `db:"product_price"`
	ProductImage   string  `db:"product_image"`
	Quantity       int     `db:"quantity"`
	StockAvailable int     `db:"stock_available"`
	ProductActive  bool    `db:"product_active"`
	AddedAt        string  `db:"added_at"`
}

func (r *CartRow) Subtotal() float64 { return r.ProductPrice * float64(r.Quantity) }

// ListJoined returns every cart row for the user, including rows whose
// product has since been deactivated; callers decide how to treat those.
func (r *CartRepo) ListJoined(userID string) ([]CartRow, error) {
	rows := []CartRow{}
	err := r.db.Select(&rows, `
	  SELECT ci.id, ci.product_id, p.name AS product_name, p.model AS product_model,
	         p.price AS product_price, p.primary_image_url AS product_image,
	         ci.quantity, p.stock_quantity AS stock_available,
	         p.is_active AS product_active, ci.created_at AS added_at
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at, ci.rowid
	`, userID)
	return rows, err
}

func (r *CartRepo) Get(userID, productID string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
	  SELECT id, user_id, product_id, quantity, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err == sql.ErrNoRows {
		return it, domain.NotFoundf("cart item for product %s", productID)
	}
	return it, err
}

// Upsert merges quantities for an existing (user, product) row instead of
// duplicating it.
func (r *CartRepo) Upsert(userID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,user_id,product_id,quantity)
		VALUES(?,?,?,?)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), userID, productID, qty)
	return err
}

// SetQuantity overwrites the row's quantity.
func (r *CartRepo) SetQuantity(userID, productID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE cart_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND product_id = ?
	`, qty, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("cart item for product %s", productID)
	}
	return nil
}

func (r *CartRepo) Delete(userID, productID string) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("cart item for product %s", productID)
	}
	return nil
}

// Clear deletes every row for the user; deleting an already-empty cart is a
// no-op, not an error.
func (r *CartRepo) Clear(ext sqlx.Ext, userID string) error {
	_, err := ext.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

func (r *CartRepo) Count(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COALESCE(SUM(quantity),0) FROM cart_items WHERE user_id = ?`, userID)
	return n, err
}

func (r *CartRepo) DB() *sqlx.DB { return r.db }
