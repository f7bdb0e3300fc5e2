package order

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Side selects which of a vendor's orders to list.
type Side string

const (
	SideAll      Side = ""
	SidePurchase Side = "purchase" // orders the vendor placed
	SideSell     Side = "sell"     // orders containing items the vendor sells
)

// Order is a purchase placed by one pharmacy. Its items may be supplied by
// several selling vendors.
type Order struct {
	ID          uuid.UUID    `json:"id"`
	OrderNumber string       `json:"order_number"`
	CustomerID  uuid.UUID    `json:"customer_id"`
	Status      OrderStatus  `json:"status"`
	Subtotal    float64      `json:"subtotal"`
	Total       float64      `json:"total"`
	Currency    string       `json:"currency"`
	Notes       string       `json:"notes,omitempty"`
	Items       []*OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// OrderItem is a single line sold by one vendor.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	ProductName string    `json:"product_name"`
	NDCCode     string    `json:"ndc_code,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	LineTotal   float64   `json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
}

// VendorIDs returns the purchasing vendor followed by every distinct seller.
func (o *Order) VendorIDs() []uuid.UUID {
	ids := []uuid.UUID{o.CustomerID}
	seen := map[uuid.UUID]bool{o.CustomerID: true}
	for _, item := range o.Items {
		if !seen[item.VendorID] {
			seen[item.VendorID] = true
			ids = append(ids, item.VendorID)
		}
	}
	return ids
}

// CartItem describes one line of a new order.
type CartItem struct {
	VendorID    string  `json:"vendor_id" validate:"required,uuid"`
	ProductName string  `json:"product_name" validate:"required"`
	NDCCode     string  `json:"ndc_code"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	CustomerID string     `json:"customer_id" validate:"required,uuid"`
	Items      []CartItem `json:"items" validate:"required,min=1,dive"`
	Notes      string     `json:"notes,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
