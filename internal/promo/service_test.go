package promo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-reward/internal/cache"
	"github.com/noah-isme/backend-reward/internal/promo"
	"github.com/noah-isme/backend-reward/internal/reward"
)

type stubStore struct {
	discounts     []reward.DiscountPromotion
	points        []reward.PointsPromotion
	discountCalls int
	pointsCalls   int
}

func (s *stubStore) AllDiscounts(context.Context) ([]reward.DiscountPromotion, error) {
	s.discountCalls++
	return s.discounts, nil
}

func (s *stubStore) AllPoints(context.Context) ([]reward.PointsPromotion, error) {
	s.pointsCalls++
	return s.points, nil
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := reward.ParseDate(value)
	require.NoError(t, err)
	return d
}

func fixtureStore(t *testing.T) *stubStore {
	return &stubStore{
		discounts: []reward.DiscountPromotion{
			{
				ID:                 "DP001",
				Name:               "Fuel Discount Promo",
				StartDate:          mustDate(t, "01-Jan-2020"),
				EndDate:            mustDate(t, "15-Feb-2020"),
				Rate:               decimal.RequireFromString("0.20"),
				EligibleProductIDs: []string{"PRD02"},
			},
		},
		points: []reward.PointsPromotion{
			{
				ID:            "PP001",
				Name:          "New Year Promo",
				StartDate:     mustDate(t, "01-Jan-2020"),
				EndDate:       mustDate(t, "30-Jan-2020"),
				Category:      reward.CategoryAny,
				PointsPerUnit: 2,
			},
			{
				ID:            "PP003",
				Name:          "Shop Promo",
				StartDate:     mustDate(t, "01-Mar-2020"),
				EndDate:       mustDate(t, "20-Mar-2020"),
				Category:      "Shop",
				PointsPerUnit: 4,
			},
		},
	}
}

func TestPromotionSnapshotsAreCached(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := fixtureStore(t)
	svc, err := promo.NewService(promo.ServiceConfig{
		Store: store,
		Cache: cache.New(client, 4*time.Hour),
	})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		discounts, err := svc.AllDiscountPromotions(ctx)
		require.NoError(t, err)
		require.Len(t, discounts, 1)
		points, err := svc.AllPointsPromotions(ctx)
		require.NoError(t, err)
		require.Len(t, points, 2)
	}
	require.Equal(t, 1, store.discountCalls)
	require.Equal(t, 1, store.pointsCalls)

	// Cached snapshots must round-trip promotion windows and rates exactly.
	discounts, err := svc.AllDiscountPromotions(ctx)
	require.NoError(t, err)
	require.True(t, discounts[0].Rate.Equal(decimal.RequireFromString("0.20")))
	require.True(t, discounts[0].ActiveOn(mustDate(t, "15-Feb-2020")))
	require.False(t, discounts[0].ActiveOn(mustDate(t, "16-Feb-2020")))
}

func TestPointsHandlerAsOfFilter(t *testing.T) {
	svc, err := promo.NewService(promo.ServiceConfig{Store: fixtureStore(t)})
	require.NoError(t, err)
	handler := promo.Handler{Service: svc}

	rr := httptest.NewRecorder()
	handler.Points(rr, httptest.NewRequest(http.MethodGet, "/api/v1/promotions/points?asOf=10-Jan-2020", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data []promo.PointsDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "PP001", body.Data[0].ID)
}

func TestDiscountsHandlerRejectsBadAsOf(t *testing.T) {
	svc, err := promo.NewService(promo.ServiceConfig{Store: fixtureStore(t)})
	require.NoError(t, err)
	handler := promo.Handler{Service: svc}

	rr := httptest.NewRecorder()
	handler.Discounts(rr, httptest.NewRequest(http.MethodGet, "/api/v1/promotions/discounts?asOf=2020-01-10", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
