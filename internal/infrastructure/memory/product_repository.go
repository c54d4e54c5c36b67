package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	guard
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	stored := *p
	stored.ID = strings.Clone(p.ID)
	stored.Name = strings.Clone(p.Name)
	stored.Bom = nil
	r.s.products[stored.ID] = stored
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	defer r.rlock()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p.Bom = r.bomOf(id)
	return &p, nil
}

// Update modifica nombre y valor; el Bom se administra con los métodos de líneas.
func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	current, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Name = strings.Clone(p.Name)
	current.Value = p.Value
	current.UpdatedAt = p.UpdatedAt
	r.s.products[current.ID] = current
	return nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.rlock()()
	all := r.all()
	sortByName(all, func(p entity.Product) string { return p.Name }, func(p entity.Product) string { return p.ID })
	from, to := paginate(len(all), limit, offset)
	out := make([]*entity.Product, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, &all[i])
	}
	return out, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	delete(r.s.bom, id)
	return nil
}

// ListWithBom ordena por valor descendente, luego por fecha de creación e id.
func (r *ProductRepository) ListWithBom(ctx context.Context) ([]*entity.Product, error) {
	defer r.rlock()()
	all := r.all()
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if c := a.Value.Cmp(b.Value); c != 0 {
			return c > 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	out := make([]*entity.Product, 0, len(all))
	for i := range all {
		all[i].Bom = r.bomOf(all[i].ID)
		out = append(out, &all[i])
	}
	return out, nil
}

func (r *ProductRepository) ListBom(ctx context.Context, productID string) ([]entity.BomItem, error) {
	defer r.rlock()()
	return r.bomOf(productID), nil
}

func (r *ProductRepository) GetBomItem(ctx context.Context, productID, rawMaterialID string) (*entity.BomItem, error) {
	defer r.rlock()()
	qty, ok := r.s.bom[productID][rawMaterialID]
	if !ok {
		return nil, nil
	}
	return &entity.BomItem{
		ProductID:        productID,
		RawMaterialID:    rawMaterialID,
		RawMaterialName:  r.s.materials[rawMaterialID].Name,
		RequiredQuantity: qty,
	}, nil
}

// AddBomItem exige que producto y materia prima existan (ErrConflict, como la FK) y
// que la pareja no esté ya registrada (ErrDuplicate). Los ids se copian: pueden venir
// de buffers que fiber reutiliza entre peticiones.
func (r *ProductRepository) AddBomItem(ctx context.Context, item *entity.BomItem) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.s.products[item.ProductID]; !ok {
		return domain.ErrConflict
	}
	if _, ok := r.s.materials[item.RawMaterialID]; !ok {
		return domain.ErrConflict
	}
	lines, ok := r.s.bom[item.ProductID]
	if !ok {
		lines = make(map[string]decimal.Decimal)
		r.s.bom[strings.Clone(item.ProductID)] = lines
	}
	if _, dup := lines[item.RawMaterialID]; dup {
		return domain.ErrDuplicate
	}
	lines[strings.Clone(item.RawMaterialID)] = item.RequiredQuantity
	return nil
}

func (r *ProductRepository) UpdateBomItem(ctx context.Context, item *entity.BomItem) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	lines := r.s.bom[item.ProductID]
	if _, ok := lines[item.RawMaterialID]; !ok {
		return domain.ErrNotFound
	}
	// asignar sobre una clave existente también reemplaza la clave guardada
	lines[strings.Clone(item.RawMaterialID)] = item.RequiredQuantity
	return nil
}

func (r *ProductRepository) DeleteBomItem(ctx context.Context, productID, rawMaterialID string) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	lines := r.s.bom[productID]
	if _, ok := lines[rawMaterialID]; !ok {
		return domain.ErrNotFound
	}
	delete(lines, rawMaterialID)
	if len(lines) == 0 {
		delete(r.s.bom, productID)
	}
	return nil
}

// all copia los productos sin Bom. Requiere el candado tomado.
func (r *ProductRepository) all() []entity.Product {
	out := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out
}

// bomOf arma las líneas del producto ordenadas por nombre de materia prima. Requiere el candado tomado.
func (r *ProductRepository) bomOf(productID string) []entity.BomItem {
	lines := r.s.bom[productID]
	items := make([]entity.BomItem, 0, len(lines))
	for rmID, qty := range lines {
		items = append(items, entity.BomItem{
			ProductID:        productID,
			RawMaterialID:    rmID,
			RawMaterialName:  r.s.materials[rmID].Name,
			RequiredQuantity: qty,
		})
	}
	sortByName(items, func(it entity.BomItem) string { return it.RawMaterialName }, func(it entity.BomItem) string { return it.RawMaterialID })
	return items
}
