package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo implementación de RawMaterialRepository sobre PostgreSQL (usable con pool o tx).
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

func (r *RawMaterialRepo) Create(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		INSERT INTO raw_materials (id, name, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, m.ID, m.Name, m.StockQuantity, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert raw material: %w", err)
	}
	return nil
}

func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	query := `
		SELECT id, name, stock_quantity, created_at, updated_at
		FROM raw_materials WHERE id = $1`
	var m entity.RawMaterial
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.StockQuantity, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return &m, nil
}

func (r *RawMaterialRepo) Update(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		UPDATE raw_materials SET name = $2, stock_quantity = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Name, m.StockQuantity, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update raw material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por nombre e id para que la paginación sea estable.
func (r *RawMaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	query := `
		SELECT id, name, stock_quantity, created_at, updated_at
		FROM raw_materials
		ORDER BY name, id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.RawMaterial
	for rows.Next() {
		var m entity.RawMaterial
		if err := rows.Scan(&m.ID, &m.Name, &m.StockQuantity, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan raw material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete traduce la violación de la FK RESTRICT del Bom a ErrConflict.
func (r *RawMaterialRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete raw material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RawMaterialRepo) StockSnapshot(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT id, stock_quantity FROM raw_materials`)
	if err != nil {
		return nil, fmt.Errorf("stock snapshot: %w", err)
	}
	defer rows.Close()

	stock := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			id  string
			qty decimal.Decimal
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		stock[id] = qty
	}
	return stock, rows.Err()
}
