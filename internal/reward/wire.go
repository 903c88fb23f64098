package reward

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TransactionRequestDTO is the wire form of a calculation request. Clients
// send keys in inconsistent shapes ("TransactionDate", "Transaction Date",
// "transactionDate") and numbers either quoted or bare; decoding normalizes
// all of them before the engine sees anything.
type TransactionRequestDTO struct {
	CustomerID      string          `json:"CustomerId"`
	LoyaltyCard     string          `json:"LoyaltyCard"`
	TransactionDate string          `json:"TransactionDate"`
	Basket          []BasketItemDTO `json:"Basket"`
}

// BasketItemDTO is one wire basket line. UnitPrice and Quantity stay text
// here; the engine parses them with silent zero fallback.
type BasketItemDTO struct {
	ProductID string `json:"ProductId"`
	UnitPrice string `json:"UnitPrice"`
	Quantity  string `json:"Quantity"`
}

// UnmarshalJSON maps wire keys onto fields ignoring case and embedded spaces,
// so "Transaction Date" and "transactionDate" both bind.
func (d *TransactionRequestDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		switch normalizeKey(key) {
		case "customerid":
			if err := json.Unmarshal(value, &d.CustomerID); err != nil {
				return err
			}
		case "loyaltycard":
			if err := json.Unmarshal(value, &d.LoyaltyCard); err != nil {
				return err
			}
		case "transactiondate":
			if err := json.Unmarshal(value, &d.TransactionDate); err != nil {
				return err
			}
		case "basket":
			if err := json.Unmarshal(value, &d.Basket); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnmarshalJSON accepts quoted and bare numerics for UnitPrice and Quantity.
func (d *BasketItemDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		switch normalizeKey(key) {
		case "productid":
			if err := json.Unmarshal(value, &d.ProductID); err != nil {
				return err
			}
		case "unitprice":
			d.UnitPrice = flexibleString(value)
		case "quantity":
			d.Quantity = flexibleString(value)
		}
	}
	return nil
}

// ToRequest converts the wire form into the engine request.
func (d TransactionRequestDTO) ToRequest() Request {
	lines := make([]BasketLine, 0, len(d.Basket))
	for _, item := range d.Basket {
		lines = append(lines, BasketLine{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return Request{
		CustomerID:      d.CustomerID,
		LoyaltyCard:     d.LoyaltyCard,
		TransactionDate: d.TransactionDate,
		Basket:          lines,
	}
}

// TransactionResponseDTO is the wire form of a calculation result. Amounts go
// out as two-decimal strings and points as a string, matching the established
// client contract.
type TransactionResponseDTO struct {
	CustomerID      string `json:"CustomerId"`
	LoyaltyCard     string `json:"LoyaltyCard"`
	TransactionDate string `json:"TransactionDate"`
	TotalAmount     string `json:"TotalAmount"`
	DiscountApplied string `json:"DiscountApplied"`
	GrandTotal      string `json:"GrandTotal"`
	PointsEarned    string `json:"PointsEarned"`
}

// NewTransactionResponseDTO formats a Result for the wire.
func NewTransactionResponseDTO(res Result) TransactionResponseDTO {
	return TransactionResponseDTO{
		CustomerID:      res.CustomerID,
		LoyaltyCard:     res.LoyaltyCard,
		TransactionDate: res.TransactionDate,
		TotalAmount:     res.TotalAmount.StringFixed(2),
		DiscountApplied: res.DiscountApplied.StringFixed(2),
		GrandTotal:      res.GrandTotal.StringFixed(2),
		PointsEarned:    strconv.FormatInt(res.PointsEarned, 10),
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), " ", ""))
}

// flexibleString returns the raw token as text, unquoting JSON strings and
// passing bare numbers through verbatim.
func flexibleString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
