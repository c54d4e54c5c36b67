package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RawMaterialRepository define el puerto de persistencia para RawMaterial (DIP).
type RawMaterialRepository interface {
	Create(ctx context.Context, material *entity.RawMaterial) error
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
	Update(ctx context.Context, material *entity.RawMaterial) error
	List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error)
	// Delete devuelve ErrNotFound si no existe y ErrConflict si algún Bom la referencia.
	Delete(ctx context.Context, id string) error

	// StockSnapshot devuelve el stock actual de todas las materias primas (id → cantidad).
	StockSnapshot(ctx context.Context) (map[string]decimal.Decimal, error)
}
