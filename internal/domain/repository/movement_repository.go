package repository

import (
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// MovementRepository puerto de persistencia para el libro de movimientos.
// Solo inserta y consulta: los movimientos son inmutables.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// ListRecent devuelve los últimos movimientos, más reciente primero,
	// con el nombre del producto (feed de actividad).
	ListRecent(limit int) ([]*entity.MovementWithProduct, error)
	// ListByKind lista movimientos de un tipo dentro de un rango de fechas.
	ListByKind(kind string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	CountByProduct(productID string) (int64, error)
}
