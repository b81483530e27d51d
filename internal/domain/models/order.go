package models

// Customer identifies who placed an order. Orders reference users by these
// opaque fields only; nothing is validated against the user collection.
type Customer struct {
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
}

// OrderItem is a single catalog line in an order.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Unit      string  `json:"unit" bson:"unit"`
}

// Order is a submitted checkout. Status is set to pending at creation and
// never transitions; admins can only delete.
type Order struct {
	ID        string      `json:"id" bson:"_id"`
	Customer  Customer    `json:"customer" bson:"customer"`
	Items     []OrderItem `json:"items" bson:"items"`
	Total     float64     `json:"total" bson:"total"`
	Status    string      `json:"status" bson:"status"`
	CreatedAt string      `json:"createdAt" bson:"createdAt"`
}

// OrderStatusPending is the only status orders ever carry.
const OrderStatusPending = "pending"
