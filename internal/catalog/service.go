package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/noah-isme/backend-reward/internal/cache"
	"github.com/noah-isme/backend-reward/internal/common"
	"github.com/noah-isme/backend-reward/internal/repo"
	"github.com/noah-isme/backend-reward/internal/reward"
)

const snapshotCacheKey = "catalog:products:all"

// Store captures the repository methods the catalog service depends on.
type Store interface {
	All(ctx context.Context) ([]reward.Product, error)
	Get(ctx context.Context, id string) (reward.Product, error)
}

// Service serves product reference data with a read-through cache.
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
		return nil, errors.New("catalog: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache}, nil
}

// AllProducts returns the full catalog snapshot used for basket resolution.
func (s *Service) AllProducts(ctx context.Context) ([]reward.Product, error) {
	var cached []reward.Product
	if ok, err := s.cache.GetJSON(ctx, snapshotCacheKey, &cached); err == nil && ok {
		return cached, nil
	}
	products, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	_ = s.cache.SetJSON(ctx, snapshotCacheKey, products)
	return products, nil
}

// GetProduct returns a single product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (reward.Product, error) {
	product, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return reward.Product{}, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return reward.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}
