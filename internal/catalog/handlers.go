package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-reward/internal/common"
	"github.com/noah-isme/backend-reward/internal/reward"
)

// ProductDTO is the public product payload.
type ProductDTO struct {
	ID        string `json:"productId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice string `json:"unitPrice"`
}

func toDTO(p reward.Product) ProductDTO {
	return ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.UnitPrice.StringFixed(2),
	}
}

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	products, err := h.service.AllProducts(r.Context())
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	items := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		items = append(items, toDTO(p))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// ProductDetail handles GET /api/v1/products/{id}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toDTO(product)})
}
