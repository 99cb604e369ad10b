package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name       string
	PriceCents int64
	Digital    bool
	ImagePath  string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:       "Water Bottle",
			PriceCents: 1999,
			ImagePath:  "water_bottle.jpg",
		},
		{
			Name:       "Backpack",
			PriceCents: 10999,
			ImagePath:  "backpack.jpg",
		},
		{
			Name:       "Trail Map (PDF)",
			PriceCents: 500,
			Digital:    true,
			ImagePath:  "trail_map.png",
		},
		{
			Name:       "Workout Plan (PDF)",
			PriceCents: 1500,
			Digital:    true,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, price_cents, digital, image_path)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE SET
    price_cents = EXCLUDED.price_cents,
    digital = EXCLUDED.digital,
    image_path = EXCLUDED.image_path
`
	_, err := pool.Exec(ctx, q, p.Name, p.PriceCents, p.Digital, p.ImagePath)
	return err
}
