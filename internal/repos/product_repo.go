package repos

import (
	"database/sql"
	"strings"

	"chronoworks/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, model, description, price, original_price,
  stock_quantity, primary_image_url, image_urls, slug, is_active, is_featured,
  created_at, COALESCE(updated_at,'') AS updated_at`

// Filter narrows the catalog listing; zero values mean "no constraint".
type Filter struct {
	CategoryID   string
	Search       string
	MinPrice     float64
	MaxPrice     float64
	FeaturedOnly bool
}

func (r *ProductRepo) List(f Filter, limit, offset int) ([]domain.Product, error) {
	where := `is_active = 1`
	args := []any{}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Search != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(model) LIKE ? OR LOWER(description) LIKE ?)`
		term := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, term, term, term)
	}
	if f.MinPrice > 0 {
		where += ` AND price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where += ` AND price <= ?`
		args = append(args, f.MaxPrice)
	}
	if f.FeaturedOnly {
		where += ` AND is_featured = 1`
	}
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE `+where+`
	  ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	return out, err
}

// GetActive returns an active product or domain.ErrNotFound.
func (r *ProductRepo) GetActive(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ? AND is_active = 1`, id)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundf("product %s", id)
	}
	return p, err
}

// Get returns a product regardless of active flag (admin paths).
func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundf("product %s", id)
	}
	return p, err
}

func (r *ProductRepo) Related(p domain.Product, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products
	  WHERE category_id = ? AND id != ? AND is_active = 1 LIMIT ?`,
		p.CategoryID, p.ID, limit)
	return out, err
}

// Decrement subtracts stock only when enough remains; the conditional WHERE
// makes concurrent checkouts safe (stock can never go negative).
func (r *ProductRepo) Decrement(ext sqlx.Ext, productID string, by int) error {
	res, err := ext.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Restore adds stock back (order cancellation).
func (r *ProductRepo) Restore(ext sqlx.Ext, productID string, by int) error {
	_, err := ext.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, by, productID)
	return err
}

// AdjustStock applies a signed delta, refusing to go below zero.
func (r *ProductRepo) AdjustStock(productID string, delta int) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity + ? >= 0
	`, delta, productID, delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepo) Stock(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock_quantity FROM products WHERE id = ?`, productID)
	if err == sql.ErrNoRows {
		return 0, domain.NotFoundf("product %s", productID)
	}
	return qty, err
}

// DB exposes the handle for callers that open their own transactions.
func (r *ProductRepo) DB() *sqlx.DB { return r.db }
