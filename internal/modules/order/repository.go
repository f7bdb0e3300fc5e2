package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items by UUID.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable order number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrdersByVendor returns the orders a vendor placed, sold into, or both.
	ListOrdersByVendor(ctx context.Context, vendorID string, side Side, status OrderStatus) ([]*Order, error)

	// UpdateStatus moves an order from one status to another. It fails with
	// concurrent_modification when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error
}
