package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// ActivityUseCase consultas de solo lectura sobre el libro de movimientos:
// feed de actividad reciente y reporte por tipo y rango de fechas.
type ActivityUseCase struct {
	movementRepo repository.MovementRepository
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(movementRepo repository.MovementRepository) *ActivityUseCase {
	return &ActivityUseCase{movementRepo: movementRepo}
}

// Recent devuelve los últimos movimientos, más reciente primero, con el
// nombre del producto. limit se acota a [1, 100]; 0 usa 20.
func (uc *ActivityUseCase) Recent(ctx context.Context, limit int) ([]dto.MovementFeedItem, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	movements, err := uc.movementRepo.ListRecent(limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementFeedItem, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementFeedItem{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: m.ProductName,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			Reference:   m.Reference,
			CreatedAt:   m.CreatedAt,
		})
	}
	return items, nil
}

// Report lista movimientos de un tipo dentro de un rango de fechas.
// kind debe ser "entrada" o "salida"; from/to pueden ser nil (sin límite).
func (uc *ActivityUseCase) Report(ctx context.Context, kind string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementReportItem, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	movements, err := uc.movementRepo.ListByKind(kind, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementReportItem, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementReportItem{
			ID:        m.ID,
			ProductID: m.ProductID,
			Kind:      m.Kind,
			Quantity:  m.Quantity,
			Reference: m.Reference,
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		})
	}
	return items, nil
}
