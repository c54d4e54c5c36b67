package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/seed"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const (
	materialsCSV = "name,stock_quantity\nMadera,10\nTornillo,100.5\n"
	productsCSV  = "name,value\nMesa,120.00\nSilla de 'lujo',45.5\n"
	bomCSV       = "product,raw_material,required_quantity\nMesa,madera,4\nMesa,Tornillo,8\nSilla de 'lujo',Madera,1.25\n"
)

var now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func buildDataset(t *testing.T) *seed.Dataset {
	t.Helper()
	mats, err := seed.ReadMaterials(strings.NewReader(materialsCSV))
	require.NoError(t, err)
	prods, err := seed.ReadProducts(strings.NewReader(productsCSV))
	require.NoError(t, err)
	bom, err := seed.ReadBom(strings.NewReader(bomCSV))
	require.NoError(t, err)
	ds, err := seed.Build(mats, prods, bom, now)
	require.NoError(t, err)
	return ds
}

func TestReadMaterials_Latin1ConPuntoYComa(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("name;stock_quantity\nAlgodón;3.5\n")
	require.NoError(t, err)
	r, err := seed.NewReader(strings.NewReader(raw), "ISO-8859-1")
	require.NoError(t, err)
	rows, err := seed.ReadMaterials(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Algodón", rows[0].Name)
	assert.True(t, rows[0].StockQuantity.Equal(decimal.RequireFromString("3.5")))
}

func TestReadMaterials_ComaDecimalConPuntoYComa(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("name;stock_quantity\nAlgodón;3,5\nTornillo, 6mm; 12\n")
	require.NoError(t, err)
	r, err := seed.NewReader(strings.NewReader(raw), "latin1")
	require.NoError(t, err)
	rows, err := seed.ReadMaterials(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].StockQuantity.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, "Tornillo, 6mm", rows[1].Name)

	rows, err = seed.ReadMaterials(strings.NewReader("name;stock_quantity\nMadera;1.234,5\n"))
	assert.ErrorContains(t, err, "línea 2")
	assert.Empty(t, rows)

	// con separador coma, "1,5" entre comillas no es un número
	_, err = seed.ReadMaterials(strings.NewReader("name,stock_quantity\nMadera,\"1,5\"\n"))
	assert.ErrorContains(t, err, "línea 2")
}

func TestNewReader_CodificacionDesconocida(t *testing.T) {
	_, err := seed.NewReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestReadProducts_EncabezadoInvalido(t *testing.T) {
	_, err := seed.ReadProducts(strings.NewReader("nombre,valor\nMesa,1\n"))
	assert.ErrorContains(t, err, "encabezado")

	_, err = seed.ReadProducts(strings.NewReader(""))
	assert.ErrorContains(t, err, "vacío")
}

func TestBuild_ResuelvePorNombre(t *testing.T) {
	ds := buildDataset(t)

	require.Len(t, ds.Materials, 2)
	require.Len(t, ds.Products, 2)
	mesa := ds.Products[0]
	assert.Equal(t, seed.ProductID("Mesa"), mesa.ID)
	require.Len(t, mesa.Bom, 2)
	assert.Equal(t, seed.MaterialID("Madera"), mesa.Bom[0].RawMaterialID)
	assert.Equal(t, seed.MaterialID("madera"), seed.MaterialID("MADERA"))
}

func TestBuild_AcumulaTodosLosErrores(t *testing.T) {
	mats := []seed.MaterialRow{
		{Line: 2, Name: "Madera", StockQuantity: decimal.NewFromInt(1)},
		{Line: 3, Name: "madera", StockQuantity: decimal.NewFromInt(1)},
		{Line: 4, Name: "Barniz", StockQuantity: decimal.RequireFromString("0.00001")},
	}
	prods := []seed.ProductRow{{Line: 2, Name: "Mesa", Value: decimal.RequireFromString("1.001")}}
	bom := []seed.BomRow{
		{Line: 2, Product: "Silla", RawMaterial: "Madera", RequiredQuantity: decimal.NewFromInt(1)},
	}

	_, err := seed.Build(mats, prods, bom, now)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "línea 3")
	assert.Contains(t, msg, "línea 4")
	assert.Contains(t, msg, "productos línea 2")
	assert.Contains(t, msg, `producto "Silla" no existe`)
}

func TestBuild_LineaBomDuplicada(t *testing.T) {
	mats := []seed.MaterialRow{{Line: 2, Name: "Madera", StockQuantity: decimal.NewFromInt(1)}}
	prods := []seed.ProductRow{{Line: 2, Name: "Mesa", Value: decimal.NewFromInt(1)}}
	bom := []seed.BomRow{
		{Line: 2, Product: "Mesa", RawMaterial: "Madera", RequiredQuantity: decimal.NewFromInt(1)},
		{Line: 3, Product: "mesa", RawMaterial: "MADERA", RequiredQuantity: decimal.NewFromInt(2)},
	}
	_, err := seed.Build(mats, prods, bom, now)
	assert.ErrorContains(t, err, "bom línea 3")
}

func TestWriteSQL_Determinista(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, seed.WriteSQL(&a, buildDataset(t)))
	require.NoError(t, seed.WriteSQL(&b, buildDataset(t)))
	assert.Equal(t, a.String(), b.String())

	sql := a.String()
	assert.True(t, strings.HasPrefix(sql, "-- "))
	assert.Contains(t, sql, "BEGIN;")
	assert.Contains(t, sql, "'Silla de ''lujo''', 45.50")
	assert.Contains(t, sql, "'Tornillo', 100.5000")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}

type storeRunner struct{ s *memory.Store }

func (r storeRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.RawMaterialRepository) error) error {
	return fn(r.s.Products(), r.s.RawMaterials())
}

func TestLoad_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	st, err := seed.Load(ctx, storeRunner{store}, buildDataset(t))
	require.NoError(t, err)
	assert.Equal(t, seed.Stats{Materials: 2, Products: 2, BomItems: 3}, st)

	_, err = seed.Load(ctx, storeRunner{store}, buildDataset(t))
	require.NoError(t, err)

	list, err := store.Products().ListWithBom(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mesa", list[0].Name)
	assert.Len(t, list[0].Bom, 2)
}
