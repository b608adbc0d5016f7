package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
// Los métodos devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción (TxRunner).
	GetForUpdate(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// ListActive devuelve el snapshot completo de productos activos,
	// usado por las proyecciones de riesgo.
	ListActive() ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateQuantity(id string, quantity decimal.Decimal) error
	Deactivate(id string) error
	// Delete borra la fila. Solo válido para productos sin movimientos;
	// el caso de uso verifica esa condición antes de llamar.
	Delete(id string) error
}
