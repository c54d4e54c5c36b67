package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RawMaterialRepository implementación en memoria de repository.RawMaterialRepository.
type RawMaterialRepository struct {
	guard
}

func (r *RawMaterialRepository) Create(ctx context.Context, m *entity.RawMaterial) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.s.materials[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.materials[strings.Clone(m.ID)] = ownedMaterial(m)
	return nil
}

func (r *RawMaterialRepository) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	defer r.rlock()()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *RawMaterialRepository) Update(ctx context.Context, m *entity.RawMaterial) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.s.materials[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.materials[strings.Clone(m.ID)] = ownedMaterial(m)
	return nil
}

func (r *RawMaterialRepository) List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	defer r.rlock()()
	all := make([]entity.RawMaterial, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		all = append(all, m)
	}
	sortByName(all, func(m entity.RawMaterial) string { return m.Name }, func(m entity.RawMaterial) string { return m.ID })
	from, to := paginate(len(all), limit, offset)
	out := make([]*entity.RawMaterial, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, &all[i])
	}
	return out, nil
}

// Delete devuelve ErrConflict si algún producto usa la materia prima, igual que la FK RESTRICT de postgres.
func (r *RawMaterialRepository) Delete(ctx context.Context, id string) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.s.materials[id]; !ok {
		return domain.ErrNotFound
	}
	for _, lines := range r.s.bom {
		if _, used := lines[id]; used {
			return domain.ErrConflict
		}
	}
	delete(r.s.materials, id)
	return nil
}

func (r *RawMaterialRepository) StockSnapshot(ctx context.Context) (map[string]decimal.Decimal, error) {
	defer r.rlock()()
	out := make(map[string]decimal.Decimal, len(r.s.materials))
	for id, m := range r.s.materials {
		out[id] = m.StockQuantity
	}
	return out, nil
}

// ownedMaterial copia la entidad con strings propios del store.
func ownedMaterial(m *entity.RawMaterial) entity.RawMaterial {
	c := *m
	c.ID = strings.Clone(m.ID)
	c.Name = strings.Clone(m.Name)
	return c
}
