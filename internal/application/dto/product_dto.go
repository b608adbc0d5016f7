package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialQuantity queda registrada como un movimiento de entrada inicial.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Category        string          `json:"category"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	UnitMeasure     string          `json:"unit_measure"`
	LotCode         string          `json:"lot_code"`
	Location        string          `json:"location"`
	ReceivedAt      *time.Time      `json:"received_at"`
	ExpiresAt       *time.Time      `json:"expires_at"`
}

// UpdateProductRequest entrada para actualizar un producto.
// La cantidad no se toca aquí: solo vía movimientos de inventario.
type UpdateProductRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string    `json:"category"`
	UnitMeasure *string    `json:"unit_measure"`
	LotCode     *string    `json:"lot_code"`
	Location    *string    `json:"location"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Active      *bool      `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitMeasure string          `json:"unit_measure"`
	LotCode     string          `json:"lot_code"`
	Location    string          `json:"location"`
	ReceivedAt  time.Time       `json:"received_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductRiskResponse proyección de riesgo de un producto.
type ProductRiskResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Quantity        decimal.Decimal `json:"quantity"`
	Location        string          `json:"location"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
	LowStock        bool            `json:"low_stock"`
	NearExpiry      bool            `json:"near_expiry"`
}
