package promo

import (
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/backend-reward/internal/common"
	"github.com/noah-isme/backend-reward/internal/reward"
)

// DiscountDTO is the public discount promotion payload.
type DiscountDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	Rate               string   `json:"rate"`
	EligibleProductIDs []string `json:"eligibleProductIds"`
}

// PointsDTO is the public points promotion payload.
type PointsDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Category      string `json:"category"`
	PointsPerUnit int64  `json:"pointsPerUnit"`
}

// Handler exposes promotion listing endpoints.
type Handler struct {
	Service *Service
}

// Discounts handles GET /api/v1/promotions/discounts. An optional asOf query
// (dd-MMM-yyyy) narrows the listing to promotions active on that date; the
// calculation path never relies on this filter.
func (h *Handler) Discounts(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service not configured", nil)
		return
	}
	promos, err := h.Service.AllDiscountPromotions(r.Context())
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	asOf, ok, err := parseAsOf(r.URL.Query().Get("asOf"))
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	items := make([]DiscountDTO, 0, len(promos))
	for _, p := range promos {
		if ok && !p.ActiveOn(asOf) {
			continue
		}
		items = append(items, DiscountDTO{
			ID:                 p.ID,
			Name:               p.Name,
			StartDate:          p.StartDate.Format(reward.DateFormat),
			EndDate:            p.EndDate.Format(reward.DateFormat),
			Rate:               p.Rate.String(),
			EligibleProductIDs: p.EligibleProductIDs,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// Points handles GET /api/v1/promotions/points.
func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service not configured", nil)
		return
	}
	promos, err := h.Service.AllPointsPromotions(r.Context())
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	asOf, ok, err := parseAsOf(r.URL.Query().Get("asOf"))
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	items := make([]PointsDTO, 0, len(promos))
	for _, p := range promos {
		if ok && !p.ActiveOn(asOf) {
			continue
		}
		items = append(items, PointsDTO{
			ID:            p.ID,
			Name:          p.Name,
			StartDate:     p.StartDate.Format(reward.DateFormat),
			EndDate:       p.EndDate.Format(reward.DateFormat),
			Category:      p.Category,
			PointsPerUnit: p.PointsPerUnit,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func parseAsOf(value string) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false, nil
	}
	at, err := reward.ParseDate(trimmed)
	if err != nil {
		return time.Time{}, false, common.InvalidArgument("asOf must use dd-MMM-yyyy", err)
	}
	return at, true, nil
}
