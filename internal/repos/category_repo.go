package repos

import (
	"chronoworks/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// CategoryWithCount carries the active-product count shown on category tiles.
type CategoryWithCount struct {
	domain.Category
	ProductCount int `db:"product_count" json:"product_count"`
}

func (r *CategoryRepo) List() ([]CategoryWithCount, error) {
	out := []CategoryWithCount{}
	err := r.db.Select(&out, `
	  SELECT c.id, c.name, c.description, c.image_url, c.created_at,
	         (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = 1) AS product_count
	  FROM categories c
	  ORDER BY c.name
	`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id,name,description,image_url,created_at FROM categories WHERE id = ?`, id)
	return c, err
}
