package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-reward/internal/common"
	"github.com/noah-isme/backend-reward/internal/events"
	"github.com/noah-isme/backend-reward/internal/obs"
)

// ProductSource supplies the product snapshot a calculation runs against.
type ProductSource interface {
	AllProducts(ctx context.Context) ([]Product, error)
}

// DiscountSource supplies the discount promotion snapshot.
type DiscountSource interface {
	AllDiscountPromotions(ctx context.Context) ([]DiscountPromotion, error)
}

// PointsSource supplies the points promotion snapshot.
type PointsSource interface {
	AllPointsPromotions(ctx context.Context) ([]PointsPromotion, error)
}

// Service loads reference data, runs the pricing engine, and records the
// outcome. The engine itself stays pure; all I/O lives here.
type Service struct {
	products  ProductSource
	discounts DiscountSource
	points    PointsSource
	bus       *events.Bus
	logger    zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Products  ProductSource
	Discounts DiscountSource
	Points    PointsSource
	Bus       *events.Bus
	Logger    zerolog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Products == nil {
		return nil, fmt.Errorf("reward: product source is required")
	}
	if cfg.Discounts == nil {
		return nil, fmt.Errorf("reward: discount source is required")
	}
	if cfg.Points == nil {
		return nil, fmt.Errorf("reward: points source is required")
	}
	return &Service{
		products:  cfg.Products,
		discounts: cfg.Discounts,
		points:    cfg.Points,
		bus:       cfg.Bus,
		logger:    cfg.Logger,
	}, nil
}

// Calculate prices one transaction. A malformed transaction date is the only
// client error; unknown products and unparseable amounts degrade silently per
// ResolveBasket.
func (s *Service) Calculate(ctx context.Context, req Request) (Result, error) {
	at, err := ParseDate(req.TransactionDate)
	if err != nil {
		obs.RecordCalculation("rejected")
		s.emit(ctx, events.TopicTransactionRejected, req.CustomerID, map[string]string{
			"customerId":      req.CustomerID,
			"transactionDate": req.TransactionDate,
			"reason":          "invalid_date",
		})
		return Result{}, common.InvalidArgument("Invalid 'Transaction Date' format. Must be 'dd-MMM-yyyy'.", err)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		obs.RecordCalculation("error")
		return Result{}, err
	}

	res := Calculate(req, at, snap)
	obs.RecordCalculation("ok")
	obs.RecordPointsAwarded(res.PointsEarned)
	s.logger.Info().
		Str("customer_id", res.CustomerID).
		Str("transaction_date", req.TransactionDate).
		Int("lines", len(res.Lines)).
		Str("grand_total", res.GrandTotal.StringFixed(2)).
		Int64("points_earned", res.PointsEarned).
		Msg("transaction calculated")

	s.emit(ctx, events.TopicTransactionCalculated, res.CustomerID, calculatedPayload{
		CustomerID:      res.CustomerID,
		LoyaltyCard:     res.LoyaltyCard,
		TransactionDate: res.TransactionDate,
		TotalAmount:     res.TotalAmount.StringFixed(2),
		DiscountApplied: res.DiscountApplied.StringFixed(2),
		GrandTotal:      res.GrandTotal.StringFixed(2),
		PointsEarned:    res.PointsEarned,
		CalculatedAt:    time.Now().UTC(),
	})
	return res, nil
}

func (s *Service) snapshot(ctx context.Context) (Snapshot, error) {
	products, err := s.products.AllProducts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load products: %w", err)
	}
	discounts, err := s.discounts.AllDiscountPromotions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load discount promotions: %w", err)
	}
	points, err := s.points.AllPointsPromotions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load points promotions: %w", err)
	}
	return Snapshot{Products: products, Discounts: discounts, Points: points}, nil
}

// emit records a domain event. Event persistence never fails the calculation.
func (s *Service) emit(ctx context.Context, topic, aggregateID string, payload any) {
	if s.bus == nil {
		return
	}
	if _, err := s.bus.Emit(ctx, topic, aggregateID, payload); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("emit domain event")
	}
}

type calculatedPayload struct {
	CustomerID      string    `json:"customerId"`
	LoyaltyCard     string    `json:"loyaltyCard"`
	TransactionDate string    `json:"transactionDate"`
	TotalAmount     string    `json:"totalAmount"`
	DiscountApplied string    `json:"discountApplied"`
	GrandTotal      string    `json:"grandTotal"`
	PointsEarned    int64     `json:"pointsEarned"`
	CalculatedAt    time.Time `json:"calculatedAt"`
}
