package repos

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"chronoworks/internal/assets"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the watch catalog if the DB is empty (idempotent; safe every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL DEFAULT '',
  hashed_password TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email    ON users(email);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  model TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  original_price NUMERIC NOT NULL DEFAULT 0,
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  primary_image_url TEXT NOT NULL DEFAULT '',
  image_urls TEXT NOT NULL DEFAULT '[]',
  slug TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug ON products(slug) WHERE slug != '';

-- Cart rows: one per (user, product), quantities merge on conflict
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL REFERENCES users(id),
  total_amount NUMERIC NOT NULL,
  tax_amount NUMERIC NOT NULL DEFAULT 0,
  shipping_amount NUMERIC NOT NULL DEFAULT 0,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT '',
  payment_reference TEXT NOT NULL DEFAULT '',
  shipping_name TEXT NOT NULL DEFAULT '',
  shipping_email TEXT NOT NULL DEFAULT '',
  shipping_phone TEXT NOT NULL DEFAULT '',
  shipping_address TEXT NOT NULL DEFAULT '',
  shipping_city TEXT NOT NULL DEFAULT '',
  shipping_state TEXT NOT NULL DEFAULT '',
  shipping_zip TEXT NOT NULL DEFAULT '',
  shipping_country TEXT NOT NULL DEFAULT 'USA',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
  shipped_at TEXT NOT NULL DEFAULT '',
  delivered_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Order lines keep quantity and price at purchase time
CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL DEFAULT 1,
  price_at_purchase NUMERIC NOT NULL,
  PRIMARY KEY(order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

type seedProduct struct {
	Name, Model, Category, Description string
	Price, OriginalPrice               float64
	Stock                              int
	Featured                           bool
}

var seedCategories = []struct{ Name, Description string }{
	{"G-Shock", "Tough, durable watches built to withstand extreme conditions"},
	{"Edifice", "Sophisticated chronographs with advanced technology"},
	{"Pro Trek", "Outdoor adventure watches with advanced sensors"},
	{"Baby-G", "Stylish and tough watches designed for active women"},
	{"Classic", "Timeless Casio digital and analog watches"},
}

var seedProducts = []seedProduct{
	{"G-Shock GA-2100-1A1", "GA-2100-1A1", "G-Shock",
		"The iconic octagonal bezel design in a slim profile. Carbon Core Guard structure provides ultimate toughness.",
		99.00, 120.00, 25, true},
	{"Edifice EQB-1000D-1A", "EQB-1000D-1A", "Edifice",
		"Sophisticated chronograph with Bluetooth connectivity and smartphone link functionality.",
		399.00, 450.00, 15, true},
	{"Pro Trek PRW-6900Y-1", "PRW-6900Y-1", "Pro Trek",
		"Advanced outdoor watch with Triple Sensor technology for altitude, barometric pressure, and compass readings.",
		320.00, 0, 20, true},
	{"Baby-G BA-110-1A", "BA-110-1A", "Baby-G",
		"Stylish and tough watch designed for active women with shock resistance and 100M water resistance.",
		89.00, 0, 30, false},
	{"Classic F-91W-1", "F-91W-1", "Classic",
		"The legendary Casio digital watch. Simple, reliable, and iconic design that has stood the test of time.",
		15.95, 0, 100, false},
	{"G-Shock DW-5600E-1V", "DW-5600E-1V", "G-Shock",
		"The original G-Shock square design. Tough, reliable, and built to last with classic shock resistance.",
		49.00, 0, 50, false},
	{"Edifice EFV-100L-1A", "EFV-100L-1A", "Edifice",
		"Elegant chronograph with leather band, perfect for business and formal occasions.",
		179.00, 0, 18, false},
	{"Pro Trek PRG-330-1", "PRG-330-1", "Pro Trek",
		"Compact outdoor watch with essential sensors and solar power for extended adventures.",
		199.00, 0, 22, false},
}

func slugify(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "-", "/", "-").Replace(name))
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting watch catalog")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	catIDs := map[string]string{}
	for _, c := range seedCategories {
		id := uuid.NewString()
		catIDs[c.Name] = id
		img := assets.CategoryImage(c.Name)
		if _, err := tx.Exec(`INSERT INTO categories(id,name,description,image_url) VALUES(?,?,?,?)`,
			id, c.Name, c.Description, img.PrimaryURL); err != nil {
			return err
		}
	}

	for _, p := range seedProducts {
		gallery := assets.ProductImages(p.Name, p.Category, 4)
		urls, _ := json.Marshal(assets.PrimaryURLs(gallery))
		if _, err := tx.Exec(`
			INSERT INTO products(id,category_id,name,model,description,price,original_price,
			  stock_quantity,primary_image_url,image_urls,slug,is_active,is_featured)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,1,?)`,
			uuid.NewString(), catIDs[p.Category], p.Name, p.Model, p.Description,
			p.Price, p.OriginalPrice, p.Stock, gallery[0].PrimaryURL, string(urls),
			slugify(p.Name), p.Featured); err != nil {
			return err
		}
	}

	return tx.Commit()
}
