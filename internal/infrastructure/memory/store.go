// Package memory implementa los repositorios sobre mapas protegidos por un sync.RWMutex.
// Se usa con DB_DRIVER=memory para demos locales y como fake en los tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ErrReadOnlySnapshot se devuelve al intentar escribir con repositorios obtenidos de ReadSnapshot.
var ErrReadOnlySnapshot = errors.New("memory: snapshot de solo lectura")

// Store guarda todo el estado en memoria. Es seguro para uso concurrente.
type Store struct {
	mu        sync.RWMutex
	materials map[string]entity.RawMaterial
	products  map[string]entity.Product
	bom       map[string]map[string]decimal.Decimal // productID → rawMaterialID → cantidad
	users     map[string]entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		materials: make(map[string]entity.RawMaterial),
		products:  make(map[string]entity.Product),
		bom:       make(map[string]map[string]decimal.Decimal),
		users:     make(map[string]entity.User),
	}
}

// Verificación de interfaces.
var (
	_ repository.RawMaterialRepository = (*RawMaterialRepository)(nil)
	_ repository.ProductRepository     = (*ProductRepository)(nil)
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ planning.SnapshotReader          = (*Store)(nil)
)

// RawMaterials devuelve el repositorio de materias primas del store.
func (s *Store) RawMaterials() *RawMaterialRepository {
	return &RawMaterialRepository{guard{s: s}}
}

// Products devuelve el repositorio de productos del store.
func (s *Store) Products() *ProductRepository {
	return &ProductRepository{guard{s: s}}
}

// Users devuelve el repositorio de usuarios del store.
func (s *Store) Users() *UserRepository {
	return &UserRepository{guard{s: s}}
}

// ReadSnapshot mantiene el candado de lectura mientras fn se ejecuta, de modo que
// productos y stock se leen del mismo estado. Los repositorios entregados a fn
// no pueden escribir.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(
	products repository.ProductRepository,
	materials repository.RawMaterialRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&ProductRepository{guard{s: s, held: true}}, &RawMaterialRepository{guard{s: s, held: true}})
}

// guard agrupa la lógica de candados compartida por los repositorios.
// held indica que el llamador ya tiene el candado de lectura (snapshot).
type guard struct {
	s    *Store
	held bool
}

func (g guard) rlock() func() {
	if g.held {
		return func() {}
	}
	g.s.mu.RLock()
	return g.s.mu.RUnlock
}

func (g guard) lock() (func(), error) {
	if g.held {
		return nil, ErrReadOnlySnapshot
	}
	g.s.mu.Lock()
	return g.s.mu.Unlock, nil
}

func paginate(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func sortByName[T any](items []T, name func(T) string, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ni, nj := name(items[i]), name(items[j])
		if ni != nj {
			return ni < nj
		}
		return id(items[i]) < id(items[j])
	})
}
