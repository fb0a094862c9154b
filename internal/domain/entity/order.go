package entity

// OrderStatus is an order lifecycle state. Transitions are decided by the backend.
type OrderStatus string

const (
	OrderNew        OrderStatus = "NEW"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderNew, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderNew, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// PaymentMethod is how an order is paid.
type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentPaypal         PaymentMethod = "PAYPAL"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentPaypal, PaymentBankTransfer, PaymentCashOnDelivery}

// OrderItem is an immutable line of a placed order.
type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is a history record; only its status changes after creation.
type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	ShippingAddress Address       `json:"shippingAddress"`
	Items           []OrderItem   `json:"items"`
	CreatedAt       Timestamp     `json:"createdAt"`
	UpdatedAt       Timestamp     `json:"updatedAt"`
}

// PlaceOrderRequest is the payload for POST /orders/place.
type PlaceOrderRequest struct {
	ShippingAddressID int64         `json:"shippingAddressId" validate:"required" backend:"required,gt=0"`
	PaymentMethod     PaymentMethod `json:"paymentMethod" validate:"required" backend:"required,oneof=CREDIT_CARD PAYPAL BANK_TRANSFER CASH_ON_DELIVERY"`
}

// UpdateOrderStatusRequest is the payload for PUT /orders/admin/{id}/status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required" backend:"required,oneof=NEW PROCESSING SHIPPED DELIVERED CANCELLED"`
}
