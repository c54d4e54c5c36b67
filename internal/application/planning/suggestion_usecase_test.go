package planning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	got *dto.ProductionSuggestionResponse
	err error
}

func (f *fakePDF) GeneratePlanPDF(_ context.Context, plan *dto.ProductionSuggestionResponse) ([]byte, error) {
	f.got = plan
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

// catálogo: mesa (100) y silla (40) compiten por la madera.
func seedCatalog(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	materials := []entity.RawMaterial{
		{ID: "madera", Name: "Madera", StockQuantity: decimal.RequireFromString("10")},
		{ID: "clavo", Name: "Clavo", StockQuantity: decimal.RequireFromString("100")},
	}
	for i := range materials {
		require.NoError(t, s.RawMaterials().Create(ctx, &materials[i]))
	}
	products := []entity.Product{
		{ID: "silla", Name: "Silla", Value: decimal.RequireFromString("40")},
		{ID: "mesa", Name: "Mesa", Value: decimal.RequireFromString("100")},
		{ID: "adorno", Name: "Adorno", Value: decimal.RequireFromString("5")},
	}
	for i := range products {
		require.NoError(t, s.Products().Create(ctx, &products[i]))
	}
	for _, l := range []entity.BomItem{
		{ProductID: "mesa", RawMaterialID: "madera", RequiredQuantity: decimal.RequireFromString("4")},
		{ProductID: "mesa", RawMaterialID: "clavo", RequiredQuantity: decimal.RequireFromString("10")},
		{ProductID: "silla", RawMaterialID: "madera", RequiredQuantity: decimal.RequireFromString("1")},
	} {
		l := l
		require.NoError(t, s.Products().AddBomItem(ctx, &l))
	}
}

func TestSuggest_DesdeStore(t *testing.T) {
	s := memory.NewStore()
	seedCatalog(t, s)
	uc := planning.NewSuggestionUseCase(s, nil, nil)

	resp, err := uc.Suggest(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2, "adorno no tiene Bom y se omite")

	assert.Equal(t, "mesa", resp.Suggestions[0].ProductID)
	assert.EqualValues(t, 2, resp.Suggestions[0].ProducibleQuantity)
	assert.Equal(t, "silla", resp.Suggestions[1].ProductID)
	assert.EqualValues(t, 2, resp.Suggestions[1].ProducibleQuantity)
	assert.True(t, resp.GrandTotalValue.Equal(decimal.NewFromInt(280)))
	assert.False(t, resp.GeneratedAt.IsZero())

	// el stock guardado no se modifica
	m, err := s.RawMaterials().GetByID(context.Background(), "madera")
	require.NoError(t, err)
	assert.True(t, m.StockQuantity.Equal(decimal.NewFromInt(10)))
}

func TestSuggest_CatalogoVacio(t *testing.T) {
	uc := planning.NewSuggestionUseCase(memory.NewStore(), nil, nil)

	resp, err := uc.Suggest(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)
	assert.True(t, resp.GrandTotalValue.IsZero())
}

// brokenBom entrega un Bom con cantidad cero, algo que solo llega con datos corruptos.
type brokenBom struct{ *memory.Store }

func (b brokenBom) ReadSnapshot(ctx context.Context, fn func(repository.ProductRepository, repository.RawMaterialRepository) error) error {
	return b.Store.ReadSnapshot(ctx, func(_ repository.ProductRepository, materials repository.RawMaterialRepository) error {
		return fn(zeroBomProducts{}, materials)
	})
}

type zeroBomProducts struct{ repository.ProductRepository }

func (zeroBomProducts) ListWithBom(context.Context) ([]*entity.Product, error) {
	return []*entity.Product{{
		ID: "p1", Name: "Roto", Value: decimal.NewFromInt(1),
		Bom: []entity.BomItem{{ProductID: "p1", RawMaterialID: "madera", RequiredQuantity: decimal.Zero}},
	}}, nil
}

func TestSuggest_BomInvalido(t *testing.T) {
	uc := planning.NewSuggestionUseCase(brokenBom{memory.NewStore()}, nil, nil)

	_, err := uc.Suggest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidBom)
	var bomErr *production.InvalidBomError
	require.ErrorAs(t, err, &bomErr)
	assert.Equal(t, "p1", bomErr.ProductID)
}

func TestSuggestPDF_GeneraDocumento(t *testing.T) {
	s := memory.NewStore()
	seedCatalog(t, s)
	gen := &fakePDF{}
	uc := planning.NewSuggestionUseCase(s, gen, nil)

	data, filename, err := uc.SuggestPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(data))
	assert.Regexp(t, `^plan_produccion_\d{8}_\d{6}\.pdf$`, filename)
	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Suggestions, 2)
}

func TestSuggestPDF_ErrorDelGenerador(t *testing.T) {
	s := memory.NewStore()
	seedCatalog(t, s)
	uc := planning.NewSuggestionUseCase(s, &fakePDF{err: errors.New("sin fuentes")}, nil)

	_, _, err := uc.SuggestPDF(context.Background())
	assert.ErrorContains(t, err, "sin fuentes")
}
