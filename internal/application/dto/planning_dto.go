package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SuggestionItemResponse sugerencia de producción de un producto.
type SuggestionItemResponse struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	ProductValue       decimal.Decimal `json:"product_value"`
	ProducibleQuantity int64           `json:"producible_quantity"`
	TotalValue         decimal.Decimal `json:"total_value"` // product_value * producible_quantity
}

// ProductionSuggestionResponse respuesta de GET /api/production-planning/suggestions.
// Suggestions sigue el orden de prioridad usado en la asignación (mayor valor primero).
type ProductionSuggestionResponse struct {
	Suggestions     []SuggestionItemResponse `json:"suggestions"`
	GrandTotalValue decimal.Decimal          `json:"grand_total_value"`
	GeneratedAt     time.Time                `json:"generated_at"`
}
