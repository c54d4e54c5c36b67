// Package pdf renderiza el plan de producción sugerido como documento PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa     │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Valor unit. | Cantidad | Total         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: valor total de la producción sugerida                │
//	│  NOTA: criterio de priorización                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorMuted   = &props.Color{Red: 170, Green: 170, Blue: 170}
	colorText    = &props.Color{Red: 0, Green: 0, Blue: 0}
)

var _ planning.PlanPDFGenerator = (*PlanPDFGenerator)(nil)

// PlanPDFGenerator implementa planning.PlanPDFGenerator usando Maroto v2.
type PlanPDFGenerator struct {
	company string
}

// NewPlanPDFGenerator construye el generador. company aparece como autor y en el encabezado.
func NewPlanPDFGenerator(company string) *PlanPDFGenerator {
	return &PlanPDFGenerator{company: company}
}

// GeneratePlanPDF genera el PDF y devuelve sus bytes.
func (g *PlanPDFGenerator) GeneratePlanPDF(_ context.Context, plan *dto.ProductionSuggestionResponse) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("pdf: plan vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Plan de producción sugerido", true).
		WithAuthor(nonEmpty(g.company, "Produccion API"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(plan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(plan.Suggestions) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos con lista de materiales para sugerir.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	for _, r := range tableDetailRows(plan.Suggestions) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(plan.GrandTotalValue))
	m.AddRows(noteRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *PlanPDFGenerator) headerRow(plan *dto.ProductionSuggestionResponse) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("PLAN DE PRODUCCIÓN SUGERIDO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(g.company, "Produccion API"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(plan.GeneratedAt.Format("02/01/2006 15:04:05")+" UTC", props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Valor unit.", 2, align.Right),
		h("Cantidad", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableDetailRows: una fila por producto en el orden de prioridad; los de cantidad 0 en gris.
func tableDetailRows(items []dto.SuggestionItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		color := colorText
		if it.ProducibleQuantity == 0 {
			color = colorMuted
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
			}))
		}
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(i+1), 1, align.Center),
			cell(it.ProductName, 5, align.Left),
			cell("$"+formatMoney(it.ProductValue), 2, align.Right),
			cell(strconv.FormatInt(it.ProducibleQuantity, 10), 1, align.Center),
			cell("$"+formatMoney(it.TotalValue), 3, align.Right),
		))
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func noteRow() core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(
			"Los productos de mayor valor se atienden primero y consumen el stock compartido. "+
				"La sugerencia es una heurística y no garantiza el máximo valor total posible.",
			props.Text{Size: 7, Color: colorGray, Top: 4},
		),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney usa punto de miles y coma decimal con dos decimales.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
