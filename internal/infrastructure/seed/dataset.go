package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// namespace de los UUID v5: el mismo nombre produce siempre el mismo id, así el
// script generado es reproducible y se puede aplicar varias veces.
var namespace = uuid.MustParse("6f1c1d8e-3c2f-4b7e-9a51-0d4b8f6a2c10")

// MaterialID devuelve el id determinístico de una materia prima por nombre.
func MaterialID(name string) string {
	return uuid.NewSHA1(namespace, []byte("raw_material:"+strings.ToLower(name))).String()
}

// ProductID devuelve el id determinístico de un producto por nombre.
func ProductID(name string) string {
	return uuid.NewSHA1(namespace, []byte("product:"+strings.ToLower(name))).String()
}

// Dataset catálogo validado listo para escribir. Products lleva su Bom.
type Dataset struct {
	Materials []entity.RawMaterial
	Products  []entity.Product
}

// Build valida las filas y resuelve las referencias por nombre (sin distinguir mayúsculas).
// Reporta todos los errores encontrados, no solo el primero.
func Build(materials []MaterialRow, products []ProductRow, bom []BomRow, now time.Time) (*Dataset, error) {
	var errs []error
	ds := &Dataset{}

	matIndex := make(map[string]int, len(materials))
	for _, row := range materials {
		key := strings.ToLower(row.Name)
		if _, dup := matIndex[key]; dup {
			errs = append(errs, fmt.Errorf("materias primas línea %d: %q repetida", row.Line, row.Name))
			continue
		}
		m := entity.RawMaterial{
			ID:            MaterialID(row.Name),
			Name:          row.Name,
			StockQuantity: row.StockQuantity,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("materias primas línea %d: %w", row.Line, err))
			continue
		}
		matIndex[key] = len(ds.Materials)
		ds.Materials = append(ds.Materials, m)
	}

	prodIndex := make(map[string]int, len(products))
	for _, row := range products {
		key := strings.ToLower(row.Name)
		if _, dup := prodIndex[key]; dup {
			errs = append(errs, fmt.Errorf("productos línea %d: %q repetido", row.Line, row.Name))
			continue
		}
		p := entity.Product{
			ID:        ProductID(row.Name),
			Name:      row.Name,
			Value:     row.Value,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("productos línea %d: %w", row.Line, err))
			continue
		}
		prodIndex[key] = len(ds.Products)
		ds.Products = append(ds.Products, p)
	}

	for _, row := range bom {
		pi, ok := prodIndex[strings.ToLower(row.Product)]
		if !ok {
			errs = append(errs, fmt.Errorf("bom línea %d: producto %q no existe", row.Line, row.Product))
			continue
		}
		mi, ok := matIndex[strings.ToLower(row.RawMaterial)]
		if !ok {
			errs = append(errs, fmt.Errorf("bom línea %d: materia prima %q no existe", row.Line, row.RawMaterial))
			continue
		}
		p := &ds.Products[pi]
		item := entity.BomItem{
			ProductID:        p.ID,
			RawMaterialID:    ds.Materials[mi].ID,
			RawMaterialName:  ds.Materials[mi].Name,
			RequiredQuantity: row.RequiredQuantity,
		}
		if err := item.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bom línea %d: %w", row.Line, err))
			continue
		}
		if containsMaterial(p.Bom, item.RawMaterialID) {
			errs = append(errs, fmt.Errorf("bom línea %d: %q ya tiene %q", row.Line, p.Name, item.RawMaterialName))
			continue
		}
		p.Bom = append(p.Bom, item)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ds, nil
}

func containsMaterial(items []entity.BomItem, rawMaterialID string) bool {
	for _, it := range items {
		if it.RawMaterialID == rawMaterialID {
			return true
		}
	}
	return false
}

// WriteSQL escribe un script idempotente: inserta o actualiza por id y reemplaza el Bom
// de los productos del catálogo. Todo va en una sola transacción.
func WriteSQL(w io.Writer, ds *Dataset) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de producción generado por seed sql\n")
	b.WriteString("BEGIN;\n\n")

	if len(ds.Materials) > 0 {
		b.WriteString("-- 1. Materias primas\n")
		b.WriteString("INSERT INTO raw_materials (id, name, stock_quantity) VALUES\n")
		for i, m := range sortedMaterials(ds.Materials) {
			fmt.Fprintf(&b, "  ('%s', '%s', %s)%s\n", m.ID, escapeSQL(m.Name),
				m.StockQuantity.StringFixed(entity.QuantityScale), sep(i, len(ds.Materials)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, stock_quantity = EXCLUDED.stock_quantity, updated_at = now();\n\n")
	}

	products := sortedProducts(ds.Products)
	if len(products) > 0 {
		b.WriteString("-- 2. Productos\n")
		b.WriteString("INSERT INTO products (id, name, value) VALUES\n")
		for i, p := range products {
			fmt.Fprintf(&b, "  ('%s', '%s', %s)%s\n", p.ID, escapeSQL(p.Name),
				p.Value.StringFixed(entity.MoneyScale), sep(i, len(products)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, value = EXCLUDED.value, updated_at = now();\n\n")

		b.WriteString("-- 3. Listas de materiales\n")
		for _, p := range products {
			fmt.Fprintf(&b, "DELETE FROM product_raw_materials WHERE product_id = '%s';\n", p.ID)
			for _, it := range sortedBom(p.Bom) {
				fmt.Fprintf(&b, "INSERT INTO product_raw_materials (product_id, raw_material_id, required_quantity) VALUES ('%s', '%s', %s);\n",
					p.ID, it.RawMaterialID, it.RequiredQuantity.StringFixed(entity.QuantityScale))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// TxRunner ejecuta fn con repositorios atados a una transacción de escritura.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		materials repository.RawMaterialRepository,
	) error) error
}

// Stats resumen de una carga.
type Stats struct {
	Materials int
	Products  int
	BomItems  int
}

// Load inserta o actualiza el catálogo dentro de una transacción.
// Consulta antes de escribir: en postgres un INSERT fallido aborta la transacción.
func Load(ctx context.Context, runner TxRunner, ds *Dataset) (Stats, error) {
	var st Stats
	err := runner.Run(ctx, func(products repository.ProductRepository, materials repository.RawMaterialRepository) error {
		for i := range ds.Materials {
			m := &ds.Materials[i]
			existing, err := materials.GetByID(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("materia prima %q: %w", m.Name, err)
			}
			if existing == nil {
				err = materials.Create(ctx, m)
			} else {
				err = materials.Update(ctx, m)
			}
			if err != nil {
				return fmt.Errorf("materia prima %q: %w", m.Name, err)
			}
			st.Materials++
		}
		for i := range ds.Products {
			p := &ds.Products[i]
			existing, err := products.GetByID(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("producto %q: %w", p.Name, err)
			}
			if existing == nil {
				err = products.Create(ctx, p)
			} else {
				err = products.Update(ctx, p)
			}
			if err != nil {
				return fmt.Errorf("producto %q: %w", p.Name, err)
			}
			st.Products++
			for j := range p.Bom {
				it := &p.Bom[j]
				line, err := products.GetBomItem(ctx, it.ProductID, it.RawMaterialID)
				if err != nil {
					return fmt.Errorf("bom %q/%q: %w", p.Name, it.RawMaterialName, err)
				}
				if line == nil {
					err = products.AddBomItem(ctx, it)
				} else {
					err = products.UpdateBomItem(ctx, it)
				}
				if err != nil {
					return fmt.Errorf("bom %q/%q: %w", p.Name, it.RawMaterialName, err)
				}
				st.BomItems++
			}
		}
		return nil
	})
	return st, err
}

func sortedMaterials(in []entity.RawMaterial) []entity.RawMaterial {
	out := append([]entity.RawMaterial(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedProducts(in []entity.Product) []entity.Product {
	out := append([]entity.Product(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedBom(in []entity.BomItem) []entity.BomItem {
	out := append([]entity.BomItem(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].RawMaterialName < out[j].RawMaterialName })
	return out
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
