package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// RawMaterialUseCase casos de uso CRUD para materias primas.
type RawMaterialUseCase struct {
	repo repository.RawMaterialRepository
}

// NewRawMaterialUseCase construye el caso de uso.
func NewRawMaterialUseCase(repo repository.RawMaterialRepository) *RawMaterialUseCase {
	return &RawMaterialUseCase{repo: repo}
}

// Create registra una materia prima con su stock inicial.
func (uc *RawMaterialUseCase) Create(ctx context.Context, in dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	now := time.Now()
	m := &entity.RawMaterial{
		ID:            uuid.New().String(),
		Name:          trimmed(in.Name),
		StockQuantity: in.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(m), nil
}

// GetByID devuelve (nil, nil) si la materia prima no existe.
func (uc *RawMaterialUseCase) GetByID(ctx context.Context, id string) (*dto.RawMaterialResponse, error) {
	if !validID(id) {
		return nil, nil
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return toRawMaterialResponse(m), nil
}

// Update aplica los campos presentes en la entrada. Devuelve (nil, nil) si no existe.
func (uc *RawMaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	if !validID(id) {
		return nil, nil
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = trimmed(*in.Name)
	}
	if in.StockQuantity != nil {
		m.StockQuantity = *in.StockQuantity
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(m), nil
}

// List devuelve una página de materias primas ordenadas por nombre.
func (uc *RawMaterialUseCase) List(ctx context.Context, limit, offset int) (*dto.RawMaterialListResponse, error) {
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RawMaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toRawMaterialResponse(m))
	}
	return &dto.RawMaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina la materia prima. ErrConflict si algún producto la usa en su Bom.
func (uc *RawMaterialUseCase) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func toRawMaterialResponse(m *entity.RawMaterial) *dto.RawMaterialResponse {
	return &dto.RawMaterialResponse{
		ID:            m.ID,
		Name:          m.Name,
		StockQuantity: m.StockQuantity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
