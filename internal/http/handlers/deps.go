package handlers

import (
	"github.com/jmoiron/sqlx"

	"chronoworks/internal/repos"
	"chronoworks/internal/services"
)

type Deps struct {
	Auth    *services.AuthService
	Cart    *services.CartService
	Order   *services.OrderService
	Catalog *services.CatalogService

	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartSvc, cartRepo, prodRepo, orderRepo)

	return &Deps{
		Auth:    authSvc,
		Cart:    cartSvc,
		Order:   orderSvc,
		Catalog: catalogSvc,

		AuthHandler:    &AuthHandler{Auth: authSvc},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc},
		AdminHandler:   &AdminHandler{Order: orderSvc, Catalog: catalogSvc, Auth: authSvc},
	}
}
