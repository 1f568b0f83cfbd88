package model

import "time"

// Product is a catalog row. PromotionPrice 0 means no promotion.
type Product struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	PromotionPrice float64 `json:"promotion_price"`
	Category       string  `json:"category"`
}

// EffectivePrice returns the promotion price when one is active.
func (p Product) EffectivePrice() float64 {
	if p.PromotionPrice > 0 {
		return p.PromotionPrice
	}
	return p.Price
}

// Column used to order product listings.
const (
	OrderByCategory = "category"
	OrderByID       = "id"
)

type Customer struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

type OrderDetail struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Order struct {
	UserID      int64   `json:"user_id"`
	DetailID    *int64  `json:"detail_id"`
	PaymentType *string `json:"payment_type"`
	Total       float64 `json:"total"`
}

// OrderRecord, DetailRecord and CustomerAge are the historical rows read back
// for reporting.
type OrderRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	DetailID  *int64    `json:"detail_id"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

type DetailRecord struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerAge struct {
	ID  int64 `json:"id"`
	Age *int  `json:"age"`
}

// Payment methods accepted at checkout.
var PaymentTypes = []string{"Crédito", "Débito", "Dinheiro", "Pix"}

// Session roles carried in the login token.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Themes stored per session.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)
