package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const bomSelect = `
		SELECT b.product_id, b.raw_material_id, rm.name, b.required_quantity
		FROM product_raw_materials b
		JOIN raw_materials rm ON rm.id = b.raw_material_id`

// Create persiste un nuevo producto sin Bom.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Value, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con su Bom.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, name, value, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Value, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.Bom, err = r.ListBom(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update modifica nombre y valor; el Bom no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, value = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Value, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por nombre, sin Bom.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, value, created_at, updated_at
		FROM products
		ORDER BY name, id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Value, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina el producto; las líneas de Bom caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListWithBom carga todos los productos y todas las líneas de Bom en dos consultas.
func (r *ProductRepo) ListWithBom(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT id, name, value, created_at, updated_at
		FROM products
		ORDER BY value DESC, created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products with bom: %w", err)
	}
	var (
		list  []*entity.Product
		index = make(map[string]*entity.Product)
	)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Value, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
		index[p.ID] = &p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products with bom: %w", err)
	}

	items, err := r.queryBom(ctx, bomSelect+` ORDER BY b.product_id, rm.name, b.raw_material_id`)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if p, ok := index[it.ProductID]; ok {
			p.Bom = append(p.Bom, it)
		}
	}
	return list, nil
}

func (r *ProductRepo) ListBom(ctx context.Context, productID string) ([]entity.BomItem, error) {
	return r.queryBom(ctx, bomSelect+` WHERE b.product_id = $1 ORDER BY rm.name, b.raw_material_id`, productID)
}

func (r *ProductRepo) GetBomItem(ctx context.Context, productID, rawMaterialID string) (*entity.BomItem, error) {
	var it entity.BomItem
	err := r.q.QueryRow(ctx, bomSelect+` WHERE b.product_id = $1 AND b.raw_material_id = $2`, productID, rawMaterialID).
		Scan(&it.ProductID, &it.RawMaterialID, &it.RawMaterialName, &it.RequiredQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom item: %w", err)
	}
	return &it, nil
}

// AddBomItem: la PK (product_id, raw_material_id) da ErrDuplicate y las FK ErrConflict.
func (r *ProductRepo) AddBomItem(ctx context.Context, item *entity.BomItem) error {
	query := `
		INSERT INTO product_raw_materials (product_id, raw_material_id, required_quantity)
		VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, item.ProductID, item.RawMaterialID, item.RequiredQuantity)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrConflict
		}
		return fmt.Errorf("insert bom item: %w", err)
	}
	return nil
}

func (r *ProductRepo) UpdateBomItem(ctx context.Context, item *entity.BomItem) error {
	query := `
		UPDATE product_raw_materials SET required_quantity = $3
		WHERE product_id = $1 AND raw_material_id = $2`
	tag, err := r.q.Exec(ctx, query, item.ProductID, item.RawMaterialID, item.RequiredQuantity)
	if err != nil {
		return fmt.Errorf("update bom item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) DeleteBomItem(ctx context.Context, productID, rawMaterialID string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM product_raw_materials WHERE product_id = $1 AND raw_material_id = $2`,
		productID, rawMaterialID)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete bom item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) queryBom(ctx context.Context, query string, args ...any) ([]entity.BomItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bom: %w", err)
	}
	defer rows.Close()

	items := make([]entity.BomItem, 0)
	for rows.Next() {
		var it entity.BomItem
		if err := rows.Scan(&it.ProductID, &it.RawMaterialID, &it.RawMaterialName, &it.RequiredQuantity); err != nil {
			return nil, fmt.Errorf("scan bom item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
