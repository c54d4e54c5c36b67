package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y su lista de materiales.
type ProductUseCase struct {
	repo      repository.ProductRepository
	materials repository.RawMaterialRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, materials repository.RawMaterialRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, materials: materials}
}

// Create crea un producto sin lista de materiales.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      trimmed(in.Name),
		Value:     in.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID devuelve el producto con su lista de materiales, o (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return &dto.ProductDetailResponse{
		ProductResponse: *toProductResponse(p),
		RawMaterials:    toBomResponses(p.Bom),
	}, nil
}

// Update aplica los campos presentes en la entrada. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = trimmed(*in.Name)
	}
	if in.Value != nil {
		p.Value = *in.Value
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List devuelve una página de productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina el producto junto con su lista de materiales.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// ListBom devuelve la lista de materiales del producto. ErrNotFound si el producto no existe.
func (uc *ProductUseCase) ListBom(ctx context.Context, productID string) ([]dto.BomItemResponse, error) {
	if err := uc.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	items, err := uc.repo.ListBom(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toBomResponses(items), nil
}

// AddBomItem asocia una materia prima al producto.
// ErrNotFound si el producto o la materia prima no existen, ErrDuplicate si ya estaba asociada.
func (uc *ProductUseCase) AddBomItem(ctx context.Context, productID string, in dto.BomItemRequest) (*dto.BomItemResponse, error) {
	item := &entity.BomItem{ProductID: productID, RawMaterialID: in.RawMaterialID, RequiredQuantity: in.RequiredQuantity}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := uc.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	if !validID(in.RawMaterialID) {
		return nil, fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, in.RawMaterialID)
	}
	m, err := uc.materials.GetByID(ctx, in.RawMaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, in.RawMaterialID)
	}
	item.RawMaterialName = m.Name
	if err := uc.repo.AddBomItem(ctx, item); err != nil {
		return nil, err
	}
	return toBomResponse(*item), nil
}

// UpdateBomItem cambia la cantidad requerida de una línea existente.
func (uc *ProductUseCase) UpdateBomItem(ctx context.Context, productID, rawMaterialID string, in dto.UpdateBomItemRequest) (*dto.BomItemResponse, error) {
	if err := (&entity.BomItem{RequiredQuantity: in.RequiredQuantity}).Validate(); err != nil {
		return nil, err
	}
	if !validID(productID) || !validID(rawMaterialID) {
		return nil, domain.ErrNotFound
	}
	item, err := uc.repo.GetBomItem(ctx, productID, rawMaterialID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	item.RequiredQuantity = in.RequiredQuantity
	if err := uc.repo.UpdateBomItem(ctx, item); err != nil {
		return nil, err
	}
	return toBomResponse(*item), nil
}

// DeleteBomItem quita la materia prima de la lista de materiales del producto.
func (uc *ProductUseCase) DeleteBomItem(ctx context.Context, productID, rawMaterialID string) error {
	if !validID(productID) || !validID(rawMaterialID) {
		return domain.ErrNotFound
	}
	return uc.repo.DeleteBomItem(ctx, productID, rawMaterialID)
}

func (uc *ProductUseCase) ensureProduct(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Value:     p.Value,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toBomResponse(it entity.BomItem) *dto.BomItemResponse {
	return &dto.BomItemResponse{
		RawMaterialID:    it.RawMaterialID,
		RawMaterialName:  it.RawMaterialName,
		RequiredQuantity: it.RequiredQuantity,
	}
}

func toBomResponses(items []entity.BomItem) []dto.BomItemResponse {
	out := make([]dto.BomItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toBomResponse(it))
	}
	return out
}
