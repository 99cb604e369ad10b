package order

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// OpenForCustomer returns the most recently created incomplete order for
	// the customer, items included, or domain.ErrNotFound.
	OpenForCustomer(ctx context.Context, customerID int64) (*domain.Order, error)
	// EnsureOpen returns the customer's open order, creating it atomically
	// when none exists.
	EnsureOpen(ctx context.Context, customerID int64) (*domain.Order, error)
	// AdjustItemQuantity applies delta to the item's quantity as a single
	// atomic operation, creating the row first when absent. Rows left at
	// quantity <= 0 are deleted. The resulting quantity is returned, 0 when
	// the row was deleted.
	AdjustItemQuantity(ctx context.Context, orderID, productID int64, delta int) (int, error)
	SetTransactionID(ctx context.Context, orderID int64, transactionID string) error
	CreateShippingAddress(ctx context.Context, addr domain.ShippingAddress) (*domain.ShippingAddress, error)
}
