package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la bodega con su cantidad en existencia.
// Quantity es NUMERIC en la base pero siempre con valor entero; solo el
// caso de uso de movimientos puede mutarla. Invariante: Quantity >= 0.
// Un producto con historial de movimientos nunca se borra físicamente:
// Active=false lo desactiva para preservar la integridad del historial.
type Product struct {
	ID          string
	Name        string
	Category    string
	Quantity    decimal.Decimal
	UnitMeasure string     // unidad (kg, caja, unidad, etc.)
	LotCode     string     // lote
	Location    string     // ubicación en bodega
	ReceivedAt  time.Time  // fecha de ingreso
	ExpiresAt   *time.Time // fecha de vencimiento; nil = no perecedero
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
