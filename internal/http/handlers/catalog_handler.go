package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"chronoworks/internal/assets"
	"chronoworks/internal/domain"
	"chronoworks/internal/repos"
	"chronoworks/internal/services"
	"chronoworks/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func productView(p domain.Product) fiber.Map {
	var urls []string
	_ = json.Unmarshal([]byte(p.ImageURLsJSON), &urls)
	m := fiber.Map{
		"id":                p.ID,
		"category_id":       p.CategoryID,
		"name":              p.Name,
		"model":             p.Model,
		"description":       p.Description,
		"price":             p.Price,
		"stock_quantity":    p.StockQuantity,
		"primary_image_url": p.ImageURL,
		"image_urls":        urls,
		"slug":              p.Slug,
		"is_featured":       p.Featured,
		"created_at":        p.CreatedAt,
	}
	if p.OriginalPrice > p.Price {
		m["original_price"] = p.OriginalPrice
		m["discount_percentage"] = p.DiscountPercent()
	}
	return m
}

func productViews(ps []domain.Product) []fiber.Map {
	out := make([]fiber.Map, len(ps))
	for i, p := range ps {
		out[i] = productView(p)
	}
	return out
}

// GET /api/v1/categories
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// GET /api/v1/home — landing payload: hero banners plus featured products.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	ps, err := h.Catalog.Featured(6)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"hero_images": assets.HeroImages(3),
		"featured":    productViews(ps),
	})
}

// GET /api/v1/search?q=
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	q, okQ := validate.Q(c.Query("q"))
	if !okQ {
		return badRequest(c, "missing search query")
	}
	limit, _ := validate.Page(c.Query("limit"), "", 20, 50)
	ps, err := h.Catalog.Search(q, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"query": q, "products": productViews(ps)})
}

// GET /api/v1/products
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	var f repos.Filter
	if cat := c.Query("category_id"); cat != "" {
		id, okID := validate.ID(cat)
		if !okID {
			return badRequest(c, "invalid category_id")
		}
		f.CategoryID = id
	}
	if q := c.Query("q"); q != "" {
		term, okQ := validate.Q(q)
		if !okQ {
			return badRequest(c, "invalid search query")
		}
		f.Search = term
	}
	if v := c.Query("min_price"); v != "" {
		f.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("max_price"); v != "" {
		f.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	f.FeaturedOnly = c.Query("featured") == "true"

	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"), 50, 100)
	ps, err := h.Catalog.ListProducts(f, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": productViews(ps)})
}

// GET /api/v1/products/featured
func (h *CatalogHandler) Featured(c *fiber.Ctx) error {
	limit, _ := validate.Page(c.Query("limit"), "", 6, 24)
	ps, err := h.Catalog.Featured(limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": productViews(ps)})
}

// GET /api/v1/products/:id
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(productView(p))
}

// GET /api/v1/products/:id/related
func (h *CatalogHandler) Related(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	limit, _ := validate.Page(c.Query("limit"), "", 4, 12)
	ps, err := h.Catalog.Related(id, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": productViews(ps)})
}

// GET /api/v1/availability?productId=&qty=
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Query("productId"))
	if !okID {
		return badRequest(c, "missing productId")
	}
	qty := validate.Qty(c.Query("qty"))
	available, err := h.Catalog.CheckStock(id, qty)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"product_id": id, "requested": qty, "available": available})
}
