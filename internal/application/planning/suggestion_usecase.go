package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// SuggestionUseCase arma la sugerencia de producción a partir de una foto consistente
// del catálogo y del stock.
type SuggestionUseCase struct {
	snapshots SnapshotReader
	generator PlanPDFGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewSuggestionUseCase construye el caso de uso. generator puede ser nil si no se expone el PDF.
func NewSuggestionUseCase(snapshots SnapshotReader, generator PlanPDFGenerator, log *logger.Logger) *SuggestionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SuggestionUseCase{
		snapshots: snapshots,
		generator: generator,
		log:       log.Component("planning"),
		now:       time.Now,
	}
}

// Suggest calcula cuántas unidades de cada producto fabricar con el stock actual.
// Devuelve un *production.InvalidBomError si algún Bom tiene cantidades no positivas.
func (uc *SuggestionUseCase) Suggest(ctx context.Context) (*dto.ProductionSuggestionResponse, error) {
	started := uc.now()

	var (
		products []*entity.Product
		stock    map[string]decimal.Decimal
	)
	err := uc.snapshots.ReadSnapshot(ctx, func(productRepo repository.ProductRepository, materialRepo repository.RawMaterialRepository) error {
		var err error
		if products, err = productRepo.ListWithBom(ctx); err != nil {
			return fmt.Errorf("listar productos: %w", err)
		}
		if stock, err = materialRepo.StockSnapshot(ctx); err != nil {
			return fmt.Errorf("leer stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("planning: snapshot: %w", err)
	}

	result, err := production.Suggest(products, production.Stock(stock))
	if err != nil {
		uc.log.Warn().Err(err).Msg("sugerencia rechazada por Bom inválido")
		return nil, err
	}

	resp := &dto.ProductionSuggestionResponse{
		Suggestions:     make([]dto.SuggestionItemResponse, 0, len(result.Suggestions)),
		GrandTotalValue: result.GrandTotalValue,
		GeneratedAt:     uc.now().UTC(),
	}
	for _, s := range result.Suggestions {
		resp.Suggestions = append(resp.Suggestions, dto.SuggestionItemResponse{
			ProductID:          s.ProductID,
			ProductName:        s.ProductName,
			ProductValue:       s.ProductValue,
			ProducibleQuantity: s.ProducibleQuantity,
			TotalValue:         s.TotalValue,
		})
	}

	uc.log.Info().
		Int("products", len(products)).
		Int("materials", len(stock)).
		Int("suggestions", len(resp.Suggestions)).
		Str("grand_total_value", resp.GrandTotalValue.String()).
		Dur("elapsed", uc.now().Sub(started)).
		Msg("sugerencia de producción calculada")
	return resp, nil
}

// SuggestPDF calcula la sugerencia y la renderiza como PDF.
// Retorna los bytes y el nombre de archivo plan_produccion_YYYYMMDD_HHMMSS.pdf.
func (uc *SuggestionUseCase) SuggestPDF(ctx context.Context) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("planning: generador de PDF no configurado")
	}
	plan, err := uc.Suggest(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GeneratePlanPDF(ctx, plan)
	if err != nil {
		return nil, "", fmt.Errorf("planning: generación de PDF: %w", err)
	}
	filename := fmt.Sprintf("plan_produccion_%s.pdf", plan.GeneratedAt.Format("20060102_150405"))
	return pdfBytes, filename, nil
}
