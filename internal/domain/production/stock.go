package production

import "github.com/shopspring/decimal"

// Stock foto del stock disponible por materia prima (id → cantidad).
type Stock map[string]decimal.Decimal

// Availability devuelve el stock disponible de la materia prima. Es una función total:
// una materia prima ausente de la foto, o con stock negativo, cuenta como cero.
func (s Stock) Availability(rawMaterialID string) decimal.Decimal {
	q, ok := s[rawMaterialID]
	if !ok || q.IsNegative() {
		return decimal.Zero
	}
	return q
}

// clone copia la foto para que el motor trabaje sin tocar el mapa del llamador.
func (s Stock) clone() Stock {
	c := make(Stock, len(s))
	for id, q := range s {
		c[id] = q
	}
	return c
}

// consume descuenta qty de la materia prima. Nunca deja el stock por debajo de cero.
func (s Stock) consume(rawMaterialID string, qty decimal.Decimal) {
	available := s.Availability(rawMaterialID)
	if qty.GreaterThan(available) {
		qty = available
	}
	s[rawMaterialID] = available.Sub(qty)
}
