package repo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-reward/internal/reward"
)

// Promotions reads discount and points promotion records.
type Promotions struct {
	Pool Pool
}

// AllDiscounts returns every discount promotion, unfiltered. The engine
// re-checks the active window itself, so callers may serve stale or
// unscoped feeds safely.
func (r Promotions) AllDiscounts(ctx context.Context) ([]reward.DiscountPromotion, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, name, start_date, end_date, rate::text, eligible_product_ids
		FROM discount_promotions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query discount promotions: %w", err)
	}
	defer rows.Close()

	var promos []reward.DiscountPromotion
	for rows.Next() {
		var (
			p    reward.DiscountPromotion
			rate string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &rate, &p.EligibleProductIDs); err != nil {
			return nil, fmt.Errorf("scan discount promotion: %w", err)
		}
		p.Rate, err = decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("parse rate for %s: %w", p.ID, err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount promotions: %w", err)
	}
	return promos, nil
}

// AllPoints returns every points promotion, unfiltered.
func (r Promotions) AllPoints(ctx context.Context) ([]reward.PointsPromotion, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, name, start_date, end_date, category, points_per_unit
		FROM points_promotions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query points promotions: %w", err)
	}
	defer rows.Close()

	var promos []reward.PointsPromotion
	for rows.Next() {
		var p reward.PointsPromotion
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Category, &p.PointsPerUnit); err != nil {
			return nil, fmt.Errorf("scan points promotion: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points promotions: %w", err)
	}
	return promos, nil
}
