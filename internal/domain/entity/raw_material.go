package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial representa una materia prima con su stock disponible (4 decimales).
type RawMaterial struct {
	ID            string
	Name          string
	StockQuantity decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
