package services

import (
	"errors"
	"fmt"
	"math"

	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
)

const (
	taxRate          = 0.08
	freeShippingMin  = 100.0
	flatShippingRate = 9.99
)

func round2(x float64) float64 { return math.Round(x*100) / 100 }

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// CartLine is one cart row joined with live product data, as shown to the
// caller.
type CartLine struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	ProductModel   string  `json:"product_model"`
	ProductPrice   float64 `json:"product_price"`
	ProductImage   string  `json:"product_image"`
	Quantity       int     `json:"quantity"`
	Subtotal       float64 `json:"subtotal"`
	StockAvailable int     `json:"stock_available"`
	AddedAt        string  `json:"added_at"`
}

// Add upserts a cart row, merging quantities for an existing (user, product)
// pair. Stock is validated against the merged total, not just the increment.
func (s *CartService) Add(userID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.GetActive(productID)
	if err != nil {
		return err
	}

	existing := 0
	it, err := s.Carts.Get(userID, productID)
	switch {
	case err == nil:
		existing = it.Quantity
	case errors.Is(err, domain.ErrNotFound):
		// first add for this pair
	default:
		return err
	}

	if p.StockQuantity < existing+qty {
		return fmt.Errorf("%s has %d in stock, %d requested: %w",
			p.Name, p.StockQuantity, existing+qty, domain.ErrInsufficientStock)
	}
	return s.Carts.Upsert(userID, productID, qty)
}

func (s *CartService) Remove(userID, productID string) error {
	return s.Carts.Delete(userID, productID)
}

// SetQuantity overwrites the row's quantity, validating against the
// product's total stock. A non-positive quantity removes the row.
func (s *CartService) SetQuantity(userID, productID string, qty int) error {
	if qty <= 0 {
		return s.Remove(userID, productID)
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if p.StockQuantity < qty {
		return fmt.Errorf("%s has %d in stock, %d requested: %w",
			p.Name, p.StockQuantity, qty, domain.ErrInsufficientStock)
	}
	return s.Carts.SetQuantity(userID, productID, qty)
}

// List returns the cart joined with live product data. Rows whose product
// has been deactivated since being added are silently excluded.
func (s *CartService) List(userID string) ([]CartLine, error) {
	rows, err := s.Carts.ListJoined(userID)
	if err != nil {
		return nil, err
	}
	out := make([]CartLine, 0, len(rows))
	for _, r := range rows {
		if !r.ProductActive {
			continue
		}
		out = append(out, CartLine{
			ID:             r.ID,
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			ProductModel:   r.ProductModel,
			ProductPrice:   r.ProductPrice,
			ProductImage:   r.ProductImage,
			Quantity:       r.Quantity,
			Subtotal:       r.Subtotal(),
			StockAvailable: r.StockAvailable,
			AddedAt:        r.AddedAt,
		})
	}
	return out, nil
}

type CartSummary struct {
	Items                 []CartLine `json:"items"`
	TotalItems            int        `json:"total_items"`
	Subtotal              float64    `json:"subtotal"`
	TaxAmount             float64    `json:"tax_amount"`
	ShippingAmount        float64    `json:"shipping_amount"`
	TotalAmount           float64    `json:"total_amount"`
	FreeShippingEligible  bool       `json:"free_shipping_eligible"`
	FreeShippingRemaining float64    `json:"free_shipping_remaining"`
}

// Summary derives totals from current cart contents: 8% tax, free shipping
// at $100 else a $9.99 flat rate. Amounts are rounded to cents at output,
// not mid-calculation.
func (s *CartService) Summary(userID string) (CartSummary, error) {
	items, err := s.List(userID)
	if err != nil {
		return CartSummary{}, err
	}

	totalItems := 0
	subtotal := 0.0
	for _, it := range items {
		totalItems += it.Quantity
		subtotal += it.Subtotal
	}

	tax := subtotal * taxRate
	shipping := flatShippingRate
	if subtotal >= freeShippingMin {
		shipping = 0
	}
	remaining := 0.0
	if subtotal < freeShippingMin {
		remaining = freeShippingMin - subtotal
	}

	return CartSummary{
		Items:                 items,
		TotalItems:            totalItems,
		Subtotal:              round2(subtotal),
		TaxAmount:             round2(tax),
		ShippingAmount:        round2(shipping),
		TotalAmount:           round2(subtotal + tax + shipping),
		FreeShippingEligible:  subtotal >= freeShippingMin,
		FreeShippingRemaining: round2(remaining),
	}, nil
}

// Clear empties the cart; clearing an empty cart succeeds.
func (s *CartService) Clear(userID string) error {
	return s.Carts.Clear(s.Carts.DB(), userID)
}

func (s *CartService) Count(userID string) (int, error) {
	return s.Carts.Count(userID)
}

// ValidateForCheckout returns a ValidationError listing every offending
// line: empty cart, deactivated products, and short stock.
func (s *CartService) ValidateForCheckout(userID string) error {
	rows, err := s.Carts.ListJoined(userID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return &domain.ValidationError{Issues: []string{"Cart is empty"}}
	}

	var issues []string
	for _, r := range rows {
		switch {
		case !r.ProductActive:
			issues = append(issues, fmt.Sprintf("Product %s is no longer available", r.ProductID))
		case r.StockAvailable < r.Quantity:
			issues = append(issues, fmt.Sprintf("%s has insufficient stock (available: %d, requested: %d)",
				r.ProductName, r.StockAvailable, r.Quantity))
		}
	}
	if len(issues) > 0 {
		return &domain.ValidationError{Issues: issues}
	}
	return nil
}
