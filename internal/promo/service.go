package promo

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/backend-reward/internal/cache"
	"github.com/noah-isme/backend-reward/internal/obs"
	"github.com/noah-isme/backend-reward/internal/reward"
)

// Promotion lists change rarely, so snapshots live behind fixed cache keys
// with a multi-hour TTL. The calculation engine re-checks active windows
// itself, which keeps serving a stale snapshot safe.
const (
	discountCacheKey = "promo:discounts:all"
	pointsCacheKey   = "promo:points:all"
)

// Store captures the repository methods the promotion service depends on.
type Store interface {
	AllDiscounts(ctx context.Context) ([]reward.DiscountPromotion, error)
	AllPoints(ctx context.Context) ([]reward.PointsPromotion, error)
}

// Service serves promotion snapshots with a read-through cache.
type Service struct {
	store Store
	cache *cache.Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *cache.Cache
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("promo: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache}, nil
}

// AllDiscountPromotions returns the unfiltered discount promotion snapshot.
func (s *Service) AllDiscountPromotions(ctx context.Context) ([]reward.DiscountPromotion, error) {
	var cached []reward.DiscountPromotion
	if ok, err := s.cache.GetJSON(ctx, discountCacheKey, &cached); err == nil && ok {
		obs.RecordPromoCache("discounts", "hit")
		return cached, nil
	}
	obs.RecordPromoCache("discounts", "miss")
	promos, err := s.store.AllDiscounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load discount promotions: %w", err)
	}
	_ = s.cache.SetJSON(ctx, discountCacheKey, promos)
	return promos, nil
}

// AllPointsPromotions returns the unfiltered points promotion snapshot.
func (s *Service) AllPointsPromotions(ctx context.Context) ([]reward.PointsPromotion, error) {
	var cached []reward.PointsPromotion
	if ok, err := s.cache.GetJSON(ctx, pointsCacheKey, &cached); err == nil && ok {
		obs.RecordPromoCache("points", "hit")
		return cached, nil
	}
	obs.RecordPromoCache("points", "miss")
	promos, err := s.store.AllPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load points promotions: %w", err)
	}
	_ = s.cache.SetJSON(ctx, pointsCacheKey, promos)
	return promos, nil
}
