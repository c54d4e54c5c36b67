package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (el Bom se administra aparte).
type CreateProductRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Value decimal.Decimal `json:"value"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name  *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Value *decimal.Decimal `json:"value"`
}

// ProductResponse salida de un producto (sin Bom).
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductDetailResponse salida de un producto con su lista de materiales.
type ProductDetailResponse struct {
	ProductResponse
	RawMaterials []BomItemResponse `json:"raw_materials"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BomItemRequest body para POST /api/products/:id/raw-materials.
type BomItemRequest struct {
	RawMaterialID    string          `json:"raw_material_id" validate:"required,uuid"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

// UpdateBomItemRequest body para PUT /api/products/:id/raw-materials/:rmId.
type UpdateBomItemRequest struct {
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

// BomItemResponse línea de la lista de materiales.
type BomItemResponse struct {
	RawMaterialID    string          `json:"raw_material_id"`
	RawMaterialName  string          `json:"raw_material_name"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}
