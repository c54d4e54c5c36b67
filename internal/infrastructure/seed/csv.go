// Package seed carga catálogos de materias primas, productos y listas de materiales
// desde archivos CSV, los valida con las mismas reglas de la API y los convierte en
// un script SQL o los inserta directamente en la base.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Codificaciones soportadas para los CSV de entrada.
const (
	EncodingUTF8   = "utf8"
	EncodingLatin1 = "latin1"
)

// MaterialRow fila de materias_primas.csv: name,stock_quantity.
type MaterialRow struct {
	Line          int
	Name          string
	StockQuantity decimal.Decimal
}

// ProductRow fila de productos.csv: name,value.
type ProductRow struct {
	Line  int
	Name  string
	Value decimal.Decimal
}

// BomRow fila de bom.csv: product,raw_material,required_quantity (por nombre).
type BomRow struct {
	Line             int
	Product          string
	RawMaterial      string
	RequiredQuantity decimal.Decimal
}

// NewReader envuelve r para decodificar la codificación indicada a UTF-8.
func NewReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "", EncodingUTF8:
		return r, nil
	case EncodingLatin1, "iso88591":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("seed: codificación %q no soportada (utf8|latin1)", encoding)
}

// ReadMaterials lee el CSV de materias primas. La primera fila es el encabezado.
func ReadMaterials(r io.Reader) ([]MaterialRow, error) {
	var out []MaterialRow
	err := readCSV(r, []string{"name", "stock_quantity"}, func(line int, rec []string, sep rune) error {
		qty, err := parseDecimal(rec[1], "stock_quantity", sep)
		if err != nil {
			return err
		}
		out = append(out, MaterialRow{Line: line, Name: strings.TrimSpace(rec[0]), StockQuantity: qty})
		return nil
	})
	return out, err
}

// ReadProducts lee el CSV de productos.
func ReadProducts(r io.Reader) ([]ProductRow, error) {
	var out []ProductRow
	err := readCSV(r, []string{"name", "value"}, func(line int, rec []string, sep rune) error {
		value, err := parseDecimal(rec[1], "value", sep)
		if err != nil {
			return err
		}
		out = append(out, ProductRow{Line: line, Name: strings.TrimSpace(rec[0]), Value: value})
		return nil
	})
	return out, err
}

// ReadBom lee el CSV de líneas de Bom.
func ReadBom(r io.Reader) ([]BomRow, error) {
	var out []BomRow
	err := readCSV(r, []string{"product", "raw_material", "required_quantity"}, func(line int, rec []string, sep rune) error {
		qty, err := parseDecimal(rec[2], "required_quantity", sep)
		if err != nil {
			return err
		}
		out = append(out, BomRow{
			Line:             line,
			Product:          strings.TrimSpace(rec[0]),
			RawMaterial:      strings.TrimSpace(rec[1]),
			RequiredQuantity: qty,
		})
		return nil
	})
	return out, err
}

// readCSV valida el encabezado y llama fn por cada fila de datos con su número de línea
// y el separador detectado. Acepta coma o punto y coma como separador, según el encabezado.
func readCSV(r io.Reader, header []string, fn func(line int, rec []string, sep rune) error) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("seed: leer csv: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	if first, _, _ := strings.Cut(text, "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	got, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("seed: csv vacío, se esperaba encabezado %s", strings.Join(header, ","))
		}
		return fmt.Errorf("seed: encabezado: %w", err)
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(got[i]), h) {
			return fmt.Errorf("seed: encabezado inválido, se esperaba %s", strings.Join(header, ","))
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, rec, cr.Comma); err != nil {
			return fmt.Errorf("seed: línea %d: %w", line, err)
		}
	}
}

// parseDecimal acepta coma decimal en archivos separados por ';' (hojas de cálculo en
// español) siempre que el número no traiga también punto: "1,5" sí, "1.234,5" no.
func parseDecimal(s, field string, sep rune) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if sep == ';' && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q no es un número", field, s)
	}
	return d, nil
}
