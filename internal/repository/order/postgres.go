package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const openOrderQuery = `
SELECT id, customer_id, complete, transaction_id, created_at
FROM orders
WHERE customer_id = $1 AND NOT complete
ORDER BY created_at DESC, id DESC
LIMIT 1
`

func (r *postgresRepo) OpenForCustomer(ctx context.Context, customerID int64) (*domain.Order, error) {
	return r.fetchOrder(ctx, openOrderQuery, customerID)
}

func (r *postgresRepo) EnsureOpen(ctx context.Context, customerID int64) (*domain.Order, error) {
	// The partial unique index on (customer_id) WHERE NOT complete makes the
	// insert a no-op when an open order already exists, so concurrent
	// requests cannot create duplicates.
	const q = `
INSERT INTO orders (customer_id)
VALUES ($1)
ON CONFLICT (customer_id) WHERE NOT complete DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, customerID); err != nil {
		r.logger.Printf("order repo: ensure open customer_id=%d error=%v", customerID, err)
		return nil, err
	}
	return r.fetchOrder(ctx, openOrderQuery, customerID)
}

func (r *postgresRepo) AdjustItemQuantity(ctx context.Context, orderID, productID int64, delta int) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var itemID int64
	var quantity int
	err = tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (order_id, product_id)
DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity
RETURNING id, quantity
`, orderID, productID, delta).Scan(&itemID, &quantity)
	if err != nil {
		r.logger.Printf("order repo: adjust order_id=%d product_id=%d error=%v", orderID, productID, err)
		return 0, err
	}

	if quantity <= 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, itemID); err != nil {
			return 0, err
		}
		quantity = 0
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return quantity, nil
}

func (r *postgresRepo) SetTransactionID(ctx context.Context, orderID int64, transactionID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET transaction_id = $1
WHERE id = $2
`, transactionID, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) CreateShippingAddress(ctx context.Context, addr domain.ShippingAddress) (*domain.ShippingAddress, error) {
	const q = `
INSERT INTO shipping_addresses (order_id, customer_id, address, city, state, zipcode)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`
	res := addr
	err := r.pool.QueryRow(ctx, q, addr.OrderID, addr.CustomerID, addr.Address, addr.City, addr.State, addr.Zip).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: shipping address order_id=%d error=%v", addr.OrderID, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, orderQuery string, args ...interface{}) (*domain.Order, error) {
	var order domain.Order
	err := r.pool.QueryRow(ctx, orderQuery, args...).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Complete,
		&order.TransactionID,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.created_at,
       p.id, p.name, p.price_cents, p.digital, p.image_path, p.created_at
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.created_at ASC, oi.id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&p.ID,
			&p.Name,
			&p.PriceCents,
			&p.Digital,
			&p.ImagePath,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &p
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}
