package services

import (
	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListProducts(f repos.Filter, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Prods.List(f, limit, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.GetActive(id)
}

func (s *CatalogService) Featured(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.Prods.List(repos.Filter{FeaturedOnly: true}, limit, 0)
}

func (s *CatalogService) Categories() ([]repos.CategoryWithCount, error) {
	return s.Cats.List()
}

func (s *CatalogService) Search(q string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Prods.List(repos.Filter{Search: q}, limit, 0)
}

// Related lists other active products in the same category.
func (s *CatalogService) Related(productID string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return nil, err
	}
	return s.Prods.Related(p, limit)
}

// AdjustStock applies a signed delta to a product's stock, never below zero.
func (s *CatalogService) AdjustStock(productID string, delta int) error {
	if _, err := s.Prods.Get(productID); err != nil {
		return err
	}
	return s.Prods.AdjustStock(productID, delta)
}

// CheckStock reports whether the requested quantity is on hand.
func (s *CatalogService) CheckStock(productID string, qty int) (bool, error) {
	stock, err := s.Prods.Stock(productID)
	if err != nil {
		return false, err
	}
	return stock >= qty, nil
}
