package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-reward/internal/reward"
)

// Products reads catalog reference data.
type Products struct {
	Pool Pool
}

// All returns the full product snapshot ordered by id.
func (r Products) All(ctx context.Context) ([]reward.Product, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT product_id, name, category, unit_price::text
		FROM products
		ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []reward.Product
	for rows.Next() {
		var (
			p     reward.Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse unit price for %s: %w", p.ID, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// ErrNotFound is returned when a product id has no catalog entry.
var ErrNotFound = errors.New("not found")

// Get returns a single product by id.
func (r Products) Get(ctx context.Context, id string) (reward.Product, error) {
	var (
		p     reward.Product
		price string
	)
	err := r.Pool.QueryRow(ctx, `
		SELECT product_id, name, category, unit_price::text
		FROM products
		WHERE product_id = $1`, id).Scan(&p.ID, &p.Name, &p.Category, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reward.Product{}, ErrNotFound
		}
		return reward.Product{}, fmt.Errorf("query product %s: %w", id, err)
	}
	p.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return reward.Product{}, fmt.Errorf("parse unit price for %s: %w", p.ID, err)
	}
	return p, nil
}
