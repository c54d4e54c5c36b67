package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Escalas de las columnas NUMERIC: cantidades con 4 decimales, valores monetarios con 2.
const (
	QuantityScale int32 = 4
	MoneyScale    int32 = 2
)

// FitsScale indica si d no tiene más de places decimales significativos.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Validate revisa nombre y stock. Los errores envuelven domain.ErrInvalidInput.
func (m *RawMaterial) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if m.StockQuantity.IsNegative() {
		return fmt.Errorf("%w: stock_quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if !FitsScale(m.StockQuantity, QuantityScale) {
		return fmt.Errorf("%w: stock_quantity admite máximo %d decimales", domain.ErrInvalidInput, QuantityScale)
	}
	return nil
}

// Validate revisa nombre y valor del producto (no el Bom).
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if p.Value.IsNegative() {
		return fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
	}
	if !FitsScale(p.Value, MoneyScale) {
		return fmt.Errorf("%w: value admite máximo %d decimales", domain.ErrInvalidInput, MoneyScale)
	}
	return nil
}

// Validate revisa la cantidad requerida de la línea.
func (b *BomItem) Validate() error {
	if !b.RequiredQuantity.IsPositive() {
		return fmt.Errorf("%w: required_quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !FitsScale(b.RequiredQuantity, QuantityScale) {
		return fmt.Errorf("%w: required_quantity admite máximo %d decimales", domain.ErrInvalidInput, QuantityScale)
	}
	return nil
}
