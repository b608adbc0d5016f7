package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindEntrada = "entrada" // ingreso de mercancía
	MovementKindSalida  = "salida"  // retiro de mercancía
)

// ValidMovementKind reporta si kind es un tipo de movimiento conocido.
func ValidMovementKind(kind string) bool {
	return kind == MovementKindEntrada || kind == MovementKindSalida
}

// Movement es una fila inmutable del libro de movimientos. Quantity siempre
// es positiva; la dirección la da Kind. CreatedAt la asigna el servidor al
// momento de escribir. Nunca se actualiza ni se borra.
type Movement struct {
	ID        string
	ProductID string
	Kind      string // entrada | salida
	Quantity  decimal.Decimal
	Reference string // factura, orden, nota; puede ser vacío
	CreatedAt time.Time
	CreatedBy string // UserID
}

// MovementWithProduct es un movimiento con el nombre del producto,
// para el feed de actividad reciente.
type MovementWithProduct struct {
	Movement
	ProductName string
}
