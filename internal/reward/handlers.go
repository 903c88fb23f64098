package reward

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-reward/internal/common"
)

const maxRequestBody = 1 << 20

// Handler wires the calculation service to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Calculate handles POST /api/v1/transactions/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "calculation service not configured", nil)
		return
	}
	var dto TransactionRequestDTO
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&dto); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if err := h.validate(dto); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST",
			"Invalid request format. Missing CustomerId, LoyaltyCard, or non-empty Basket.", nil)
		return
	}
	res, err := h.Svc.Calculate(r.Context(), dto.ToRequest())
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, NewTransactionResponseDTO(res))
}

type calculateInput struct {
	CustomerID  string          `validate:"required"`
	LoyaltyCard string          `validate:"required"`
	Basket      []BasketItemDTO `validate:"required,min=1"`
}

func (h *Handler) validate(dto TransactionRequestDTO) error {
	input := calculateInput{
		CustomerID:  dto.CustomerID,
		LoyaltyCard: dto.LoyaltyCard,
		Basket:      dto.Basket,
	}
	if h.Validate != nil {
		return h.Validate.Struct(input)
	}
	v := validator.New()
	return v.Struct(input)
}
