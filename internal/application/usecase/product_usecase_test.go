package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	products  *usecase.ProductUseCase
	materials *usecase.RawMaterialUseCase
}

func newProductFixture() productFixture {
	s := memory.NewStore()
	return productFixture{
		products:  usecase.NewProductUseCase(s.Products(), s.RawMaterials()),
		materials: usecase.NewRawMaterialUseCase(s.RawMaterials()),
	}
}

func TestProductUseCase_CreateValidacion(t *testing.T) {
	f := newProductFixture()

	_, err := f.products.Create(context.Background(), dto.CreateProductRequest{Name: "Mesa", Value: dec("10.999")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Create(context.Background(), dto.CreateProductRequest{Name: "Mesa", Value: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{Name: "Mesa", Value: dec("10.50")})
	require.NoError(t, err)
	assert.True(t, p.Value.Equal(dec("10.5")))
}

func TestProductUseCase_CicloDeVidaBom(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Mesa", Value: dec("100")})
	require.NoError(t, err)
	madera, err := f.materials.Create(ctx, dto.CreateRawMaterialRequest{Name: "Madera", StockQuantity: dec("20")})
	require.NoError(t, err)

	line, err := f.products.AddBomItem(ctx, p.ID, dto.BomItemRequest{RawMaterialID: madera.ID, RequiredQuantity: dec("2.5")})
	require.NoError(t, err)
	assert.Equal(t, "Madera", line.RawMaterialName)

	_, err = f.products.AddBomItem(ctx, p.ID, dto.BomItemRequest{RawMaterialID: madera.ID, RequiredQuantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.products.AddBomItem(ctx, p.ID, dto.BomItemRequest{RawMaterialID: madera.ID, RequiredQuantity: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	detail, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.RawMaterials, 1)

	updated, err := f.products.UpdateBomItem(ctx, p.ID, madera.ID, dto.UpdateBomItemRequest{RequiredQuantity: dec("3")})
	require.NoError(t, err)
	assert.True(t, updated.RequiredQuantity.Equal(dec("3")))

	// materia prima en uso: no se puede borrar
	assert.ErrorIs(t, f.materials.Delete(ctx, madera.ID), domain.ErrConflict)

	require.NoError(t, f.products.DeleteBomItem(ctx, p.ID, madera.ID))
	assert.ErrorIs(t, f.products.DeleteBomItem(ctx, p.ID, madera.ID), domain.ErrNotFound)

	bom, err := f.products.ListBom(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, bom)
	assert.NotNil(t, bom)
}

func TestProductUseCase_BomNoEncontrado(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Silla", Value: dec("40")})
	require.NoError(t, err)

	_, err = f.products.AddBomItem(ctx, p.ID, dto.BomItemRequest{RawMaterialID: "0e7d3c2a-1111-4c4c-9b9b-000000000000", RequiredQuantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.products.ListBom(ctx, "0e7d3c2a-1111-4c4c-9b9b-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.products.UpdateBomItem(ctx, p.ID, "0e7d3c2a-1111-4c4c-9b9b-000000000000", dto.UpdateBomItemRequest{RequiredQuantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_DeleteEliminaBom(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	p, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Mesa", Value: dec("100")})
	require.NoError(t, err)
	m, err := f.materials.Create(ctx, dto.CreateRawMaterialRequest{Name: "Madera", StockQuantity: dec("20")})
	require.NoError(t, err)
	_, err = f.products.AddBomItem(ctx, p.ID, dto.BomItemRequest{RawMaterialID: m.ID, RequiredQuantity: dec("1")})
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.materials.Delete(ctx, m.ID))

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
