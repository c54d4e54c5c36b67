package memory_test

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, m := range []entity.RawMaterial{
		{ID: "rm-madera", Name: "Madera", StockQuantity: decimal.RequireFromString("10")},
		{ID: "rm-tornillo", Name: "Tornillo", StockQuantity: decimal.RequireFromString("100")},
		{ID: "rm-barniz", Name: "Barniz", StockQuantity: decimal.RequireFromString("2.5")},
	} {
		m := m
		require.NoError(t, s.RawMaterials().Create(ctx, &m))
	}
	for i, p := range []entity.Product{
		{ID: "p-silla", Name: "Silla", Value: decimal.RequireFromString("50")},
		{ID: "p-mesa", Name: "Mesa", Value: decimal.RequireFromString("120")},
		{ID: "p-banco", Name: "Banco", Value: decimal.RequireFromString("50")},
	} {
		p := p
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Products().Create(ctx, &p))
	}
	add := func(pid, rid, qty string) {
		require.NoError(t, s.Products().AddBomItem(ctx, &entity.BomItem{
			ProductID: pid, RawMaterialID: rid, RequiredQuantity: decimal.RequireFromString(qty),
		}))
	}
	add("p-mesa", "rm-madera", "4")
	add("p-mesa", "rm-tornillo", "8")
	add("p-silla", "rm-madera", "2")
	add("p-silla", "rm-barniz", "0.5")
	return s
}

func TestProductRepository_ListWithBomOrdenado(t *testing.T) {
	s := seedStore(t)

	list, err := s.Products().ListWithBom(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	// mismo valor: gana el más antiguo
	assert.Equal(t, []string{"p-mesa", "p-silla", "p-banco"}, []string{list[0].ID, list[1].ID, list[2].ID})
	require.Len(t, list[0].Bom, 2)
	assert.Equal(t, "Madera", list[0].Bom[0].RawMaterialName)
	assert.Empty(t, list[2].Bom)
}

func TestProductRepository_LineasBom(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	repo := s.Products()

	err := repo.AddBomItem(ctx, &entity.BomItem{ProductID: "p-mesa", RawMaterialID: "rm-madera", RequiredQuantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = repo.AddBomItem(ctx, &entity.BomItem{ProductID: "p-mesa", RawMaterialID: "rm-nada", RequiredQuantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	item, err := repo.GetBomItem(ctx, "p-silla", "rm-barniz")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Barniz", item.RawMaterialName)

	item.RequiredQuantity = decimal.RequireFromString("0.25")
	require.NoError(t, repo.UpdateBomItem(ctx, item))
	bom, err := repo.ListBom(ctx, "p-silla")
	require.NoError(t, err)
	require.Len(t, bom, 2)
	assert.True(t, bom[0].RequiredQuantity.Equal(decimal.RequireFromString("0.25")))

	require.NoError(t, repo.DeleteBomItem(ctx, "p-silla", "rm-barniz"))
	assert.ErrorIs(t, repo.DeleteBomItem(ctx, "p-silla", "rm-barniz"), domain.ErrNotFound)
}

func TestRawMaterialRepository_DeleteReferenciada(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	assert.ErrorIs(t, s.RawMaterials().Delete(ctx, "rm-tornillo"), domain.ErrConflict)

	require.NoError(t, s.Products().Delete(ctx, "p-mesa"))
	require.NoError(t, s.RawMaterials().Delete(ctx, "rm-tornillo"))
	assert.ErrorIs(t, s.RawMaterials().Delete(ctx, "rm-tornillo"), domain.ErrNotFound)
}

func TestRawMaterialRepository_ListPaginado(t *testing.T) {
	s := seedStore(t)

	page, err := s.RawMaterials().List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Madera", page[0].Name)
	assert.Equal(t, "Tornillo", page[1].Name)

	empty, err := s.RawMaterials().List(context.Background(), 10, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_ReadSnapshotSoloLectura(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	err := s.ReadSnapshot(ctx, func(products repository.ProductRepository, materials repository.RawMaterialRepository) error {
		stock, err := materials.StockSnapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, stock, 3)
		assert.True(t, stock["rm-barniz"].Equal(decimal.RequireFromString("2.5")))

		list, err := products.ListWithBom(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 3)

		return materials.Create(ctx, &entity.RawMaterial{ID: "rm-x", Name: "X"})
	})
	assert.ErrorIs(t, err, memory.ErrReadOnlySnapshot)
}

func TestStore_RetornaCopias(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	m, err := s.RawMaterials().GetByID(ctx, "rm-madera")
	require.NoError(t, err)
	m.StockQuantity = decimal.NewFromInt(999)

	again, err := s.RawMaterials().GetByID(ctx, "rm-madera")
	require.NoError(t, err)
	assert.True(t, again.StockQuantity.Equal(decimal.NewFromInt(10)))
}

func TestUserRepository_EmailUnico(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "ana@example.com"}))

	err := s.Users().Create(ctx, &entity.User{ID: "u2", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := s.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

// volatile devuelve un string que comparte memoria con buf, como los parámetros de ruta de fiber.
func volatile(buf []byte) string { return unsafe.String(&buf[0], len(buf)) }

func TestProductRepository_BomSobreviveBufferReutilizado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.RawMaterials().Create(ctx, &entity.RawMaterial{ID: "rm-a", Name: "Madera", StockQuantity: decimal.NewFromInt(8)}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p-a", Name: "Mesa", Value: decimal.NewFromInt(100)}))

	pbuf, rbuf := []byte("p-a"), []byte("rm-a")
	require.NoError(t, s.Products().AddBomItem(ctx, &entity.BomItem{
		ProductID: volatile(pbuf), RawMaterialID: volatile(rbuf), RequiredQuantity: decimal.NewFromInt(4),
	}))
	copy(pbuf, "zzz")
	copy(rbuf, "zzzz")

	lines, err := s.Products().ListBom(ctx, "p-a")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "rm-a", lines[0].RawMaterialID)

	pbuf, rbuf = []byte("p-a"), []byte("rm-a")
	require.NoError(t, s.Products().UpdateBomItem(ctx, &entity.BomItem{
		ProductID: volatile(pbuf), RawMaterialID: volatile(rbuf), RequiredQuantity: decimal.NewFromInt(2),
	}))
	copy(rbuf, "zzzz")

	item, err := s.Products().GetBomItem(ctx, "p-a", "rm-a")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.RequiredQuantity.Equal(decimal.NewFromInt(2)))

	list, err := s.Products().ListWithBom(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Bom, 1)
}

func TestRawMaterialRepository_IDSobreviveBufferReutilizado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	buf := []byte("rm-a")
	require.NoError(t, s.RawMaterials().Create(ctx, &entity.RawMaterial{ID: volatile(buf), Name: "Madera"}))
	copy(buf, "zzzz")

	m, err := s.RawMaterials().GetByID(ctx, "rm-a")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "rm-a", m.ID)
}
