// Package production implementa el motor de sugerencias de producción.
//
// Dada una foto de productos (con su lista de materiales) y del stock de materias primas,
// calcula cuántas unidades de cada producto se pueden fabricar. La asignación es voraz por
// valor declarado: los productos más valiosos se atienden primero y consumen el stock
// compartido antes que los demás. Es una heurística reproducible y fácil de explicar; no
// garantiza la combinación de mayor valor total entre todos los órdenes posibles.
//
// El motor es una función pura: no hace I/O, no guarda estado entre llamadas y nunca
// modifica la foto de stock recibida.
package production

import (
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SuggestionItem sugerencia de producción para un producto.
type SuggestionItem struct {
	ProductID          string
	ProductName        string
	ProductValue       decimal.Decimal
	ProducibleQuantity int64
	TotalValue         decimal.Decimal // ProductValue * ProducibleQuantity
}

// Result sugerencias en el orden de prioridad usado para asignar el stock.
type Result struct {
	Suggestions     []SuggestionItem
	GrandTotalValue decimal.Decimal // suma exacta de TotalValue
}

// InvalidBomError indica una línea de Bom con cantidad requerida no positiva.
// Señala datos corruptos aguas arriba; errors.Is(err, domain.ErrInvalidBom) es true.
type InvalidBomError struct {
	ProductID        string
	ProductName      string
	RawMaterialID    string
	RequiredQuantity decimal.Decimal
}

func (e *InvalidBomError) Error() string {
	return fmt.Sprintf("producto %s (%s): la cantidad requerida de la materia prima %s debe ser positiva, se recibió %s",
		e.ProductID, e.ProductName, e.RawMaterialID, e.RequiredQuantity.String())
}

func (e *InvalidBomError) Unwrap() error { return domain.ErrInvalidBom }

var maxUnits = decimal.NewFromInt(math.MaxInt64)

// Suggest calcula las sugerencias de producción.
//
//  1. Ordena los productos por valor descendente; los empates conservan el orden de entrada.
//  2. Para cada producto, la cantidad fabricable es el mínimo de floor(disponible / requerido)
//     entre sus líneas de Bom: la materia prima más escasa es el cuello de botella.
//  3. Si la cantidad es positiva descuenta requerido * cantidad de todas las materias primas
//     del Bom en la copia de trabajo del stock.
//
// Los productos sin Bom se omiten del resultado; los que tienen Bom pero no alcanzan para
// una unidad se reportan con cantidad 0. Devuelve *InvalidBomError, sin calcular nada, si
// alguna línea de Bom tiene cantidad requerida <= 0.
func Suggest(products []*entity.Product, stock Stock) (*Result, error) {
	if err := validateBom(products); err != nil {
		return nil, err
	}

	ranked := rankByValue(products)
	working := stock.clone()

	result := &Result{
		Suggestions:     make([]SuggestionItem, 0, len(ranked)),
		GrandTotalValue: decimal.Zero,
	}
	for _, p := range ranked {
		if len(p.Bom) == 0 {
			continue
		}

		qty := producibleQuantity(p.Bom, working)
		units := decimal.NewFromInt(qty)
		if qty > 0 {
			for _, item := range p.Bom {
				working.consume(item.RawMaterialID, item.RequiredQuantity.Mul(units))
			}
		}

		total := p.Value.Mul(units)
		result.Suggestions = append(result.Suggestions, SuggestionItem{
			ProductID:          p.ID,
			ProductName:        p.Name,
			ProductValue:       p.Value,
			ProducibleQuantity: qty,
			TotalValue:         total,
		})
		result.GrandTotalValue = result.GrandTotalValue.Add(total)
	}
	return result, nil
}

func validateBom(products []*entity.Product) error {
	for _, p := range products {
		if p == nil {
			continue
		}
		for _, item := range p.Bom {
			if !item.RequiredQuantity.IsPositive() {
				return &InvalidBomError{
					ProductID:        p.ID,
					ProductName:      p.Name,
					RawMaterialID:    item.RawMaterialID,
					RequiredQuantity: item.RequiredQuantity,
				}
			}
		}
	}
	return nil
}

// rankByValue devuelve una copia ordenada por valor descendente (estable).
func rankByValue(products []*entity.Product) []*entity.Product {
	ranked := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p != nil {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value.GreaterThan(ranked[j].Value)
	})
	return ranked
}

// producibleQuantity asume un Bom no vacío con cantidades positivas.
// QuoRem con precisión 0 es división entera exacta truncada hacia cero.
func producibleQuantity(bom []entity.BomItem, stock Stock) int64 {
	var bottleneck int64 = math.MaxInt64
	for _, item := range bom {
		q, _ := stock.Availability(item.RawMaterialID).QuoRem(item.RequiredQuantity, 0)
		if q.GreaterThan(maxUnits) {
			q = maxUnits
		}
		if n := q.IntPart(); n < bottleneck {
			bottleneck = n
		}
	}
	return bottleneck
}
