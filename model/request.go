package model

type LoginReq struct {
	Password string `json:"password"`
}

type LoginResp struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// CheckoutRequest carries the customer form. Optional fields are sent as
// text, the way the order screen collects them.
type CheckoutRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Age         string `json:"age"`
	PaymentType string `json:"payment_type"`
}

type CheckoutResponse struct {
	CustomerID int64  `json:"customer_id"`
	DetailID   *int64 `json:"detail_id"`
	OrderID    int64  `json:"order_id"`
	Total      string `json:"total"`
}

// ProductForm is the admin create/edit form. Numbers arrive as text and may
// use a decimal comma.
type ProductForm struct {
	Name           string `json:"name"`
	Price          string `json:"price"`
	Quantity       string `json:"quantity"`
	PromotionPrice string `json:"promotion_price"`
	Category       string `json:"category"`
}

type CartChangeResp struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

type ThemeResp struct {
	Theme string `json:"theme"`
}

type SupportResp struct {
	Status string `json:"status"`
}
