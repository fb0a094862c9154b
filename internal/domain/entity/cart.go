package entity

// CartItem is one line of the cart. Subtotal is computed by the backend.
type CartItem struct {
	ID           int64   `json:"id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage *string `json:"productImage"`
	Subtotal     float64 `json:"subtotal"`
}

// Cart is the server's view of the session's cart. TotalPrice and TotalItems are
// authoritative and never recomputed locally.
type Cart struct {
	ID         int64      `json:"id"`
	TotalPrice float64    `json:"totalPrice"`
	TotalItems int        `json:"totalItems"`
	Items      []CartItem `json:"items"`
}
