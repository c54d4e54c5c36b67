package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su lista de materiales (DIP).
// Las lecturas que no encuentran el registro devuelven (nil, nil).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve el producto con su Bom cargado.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// List lista productos sin Bom, con paginación.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Delete elimina el producto y sus líneas de Bom. ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error

	// ListWithBom devuelve todos los productos con su Bom, ordenados por valor descendente
	// y luego por antigüedad, para alimentar el motor de sugerencias.
	ListWithBom(ctx context.Context) ([]*entity.Product, error)

	ListBom(ctx context.Context, productID string) ([]entity.BomItem, error)
	GetBomItem(ctx context.Context, productID, rawMaterialID string) (*entity.BomItem, error)
	// AddBomItem devuelve ErrDuplicate si la materia prima ya está en el Bom del producto.
	AddBomItem(ctx context.Context, item *entity.BomItem) error
	UpdateBomItem(ctx context.Context, item *entity.BomItem) error
	// DeleteBomItem devuelve ErrNotFound si la línea no existe.
	DeleteBomItem(ctx context.Context, productID, rawMaterialID string) error
}
