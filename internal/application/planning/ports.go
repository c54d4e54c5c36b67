package planning

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// SnapshotReader ejecuta fn sobre una vista consistente de productos y stock.
// Las lecturas hechas dentro de fn ven el mismo estado de la base aunque otras
// escrituras ocurran en paralelo.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(
		products repository.ProductRepository,
		materials repository.RawMaterialRepository,
	) error) error
}

// PlanPDFGenerator puerto de salida para renderizar el plan de producción.
type PlanPDFGenerator interface {
	GeneratePlanPDF(ctx context.Context, plan *dto.ProductionSuggestionResponse) ([]byte, error)
}
