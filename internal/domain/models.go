package domain

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	ImageURL    string `db:"image_url" json:"image_url"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

type Product struct {
	ID            string  `db:"id"`
	CategoryID    string  `db:"category_id"`
	Name          string  `db:"name"`
	Model         string  `db:"model"`
	Description   string  `db:"description"`
	Price         float64 `db:"price"`
	OriginalPrice float64 `db:"original_price"` // 0 means no strike-through price
	StockQuantity int     `db:"stock_quantity"`
	ImageURL      string  `db:"primary_image_url"`
	ImageURLsJSON string  `db:"image_urls"`
	Slug          string  `db:"slug"`
	Active        bool    `db:"is_active"`
	Featured      bool    `db:"is_featured"`
	CreatedAt     string  `db:"created_at"`
	UpdatedAt     string  `db:"updated_at"`
}

// DiscountPercent returns the rounded percentage off when an original price
// above the current price is set, else 0.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice <= p.Price {
		return 0
	}
	return int((p.OriginalPrice-p.Price)/p.OriginalPrice*100 + 0.5)
}

type CartItem struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Order statuses. Any member may be set via UpdateStatus; cancellation is
// the only transition with a terminal-state guard.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type ShippingInfo struct {
	Name    string `db:"shipping_name" json:"name"`
	Email   string `db:"shipping_email" json:"email"`
	Phone   string `db:"shipping_phone" json:"phone"`
	Address string `db:"shipping_address" json:"address"`
	City    string `db:"shipping_city" json:"city"`
	State   string `db:"shipping_state" json:"state"`
	Zip     string `db:"shipping_zip" json:"zip"`
	Country string `db:"shipping_country" json:"country"`
}

type Order struct {
	ID             string  `db:"id"`
	OrderNumber    string  `db:"order_number"`
	UserID         string  `db:"user_id"`
	TotalAmount    float64 `db:"total_amount"`
	TaxAmount      float64 `db:"tax_amount"`
	ShippingAmount float64 `db:"shipping_amount"`
	DiscountAmount float64 `db:"discount_amount"`
	Status         string  `db:"status"`
	PaymentStatus  string  `db:"payment_status"`
	PaymentMethod  string  `db:"payment_method"`
	PaymentRef     string  `db:"payment_reference"`
	ShippingInfo
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
	ShippedAt   string `db:"shipped_at"`
	DeliveredAt string `db:"delivered_at"`
}

// OrderLine carries quantity and price at time of purchase so cancellation
// can restore exactly what was decremented.
type OrderLine struct {
	OrderID         string  `db:"order_id"`
	ProductID       string  `db:"product_id"`
	Quantity        int     `db:"quantity"`
	PriceAtPurchase float64 `db:"price_at_purchase"`
}
