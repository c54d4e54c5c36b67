package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto fabricable. Value es el valor declarado (2 decimales)
// y Bom la lista de materias primas que consume cada unidad.
type Product struct {
	ID        string
	Name      string
	Value     decimal.Decimal
	Bom       []BomItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BomItem línea de la lista de materiales: cantidad de una materia prima por unidad de producto.
// Un producto tiene como máximo una línea por materia prima.
type BomItem struct {
	ProductID        string
	RawMaterialID    string
	RawMaterialName  string // solo lectura, resuelto por el repositorio
	RequiredQuantity decimal.Decimal
}
