package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// StockMovementUseCase aplica entradas y salidas de stock de forma
// transaccional: bloqueo de fila del producto (SELECT FOR UPDATE), mutación
// de cantidad y registro del movimiento de auditoría en una sola transacción.
//
// Política de atomicidad: todo-o-nada. Si el insert del movimiento falla, la
// transacción completa se revierte y el error se reporta envuelto en
// ErrAuditWriteFailed; nunca queda un cambio de cantidad sin su fila de
// auditoría. La serialización es por producto: movimientos sobre productos
// distintos proceden en paralelo, y nunca se sostiene más de un lock a la vez.
type StockMovementUseCase struct {
	txRunner TxRunner
}

// NewStockMovementUseCase construye el caso de uso.
func NewStockMovementUseCase(txRunner TxRunner) *StockMovementUseCase {
	return &StockMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para una mutación de stock.
type MovementInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Reference string
	UserID    string
}

// MovementResult resultado de una mutación aplicada.
type MovementResult struct {
	ProductID   string
	Kind        string
	Quantity    decimal.Decimal
	NewQuantity decimal.Decimal
}

// Receive registra una entrada: suma Quantity al producto y agrega un
// movimiento "entrada". Devuelve la nueva cantidad.
func (uc *StockMovementUseCase) Receive(ctx context.Context, in MovementInput) (*MovementResult, error) {
	return uc.apply(ctx, entity.MovementKindEntrada, in)
}

// Issue registra una salida: verifica que la cantidad actual alcance, resta
// Quantity y agrega un movimiento "salida". Si no alcanza devuelve
// *domain.InsufficientStockError con la cantidad disponible.
func (uc *StockMovementUseCase) Issue(ctx context.Context, in MovementInput) (*MovementResult, error) {
	return uc.apply(ctx, entity.MovementKindSalida, in)
}

// apply valida la entrada y ejecuta verificación + mutación + auditoría
// dentro de una transacción con la fila del producto bloqueada.
func (uc *StockMovementUseCase) apply(ctx context.Context, kind string, in MovementInput) (*MovementResult, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	// La cantidad llega como decimal (el driver la maneja como NUMERIC) pero
	// el dominio exige enteros positivos: 0, negativos y fracciones se rechazan.
	if !in.Quantity.IsInteger() || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error {
		// Bloquea la fila del producto: dos salidas concurrentes sobre el
		// mismo producto se serializan aquí y la segunda ve la cantidad ya
		// descontada por la primera.
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.Active {
			return domain.ErrProductInactive
		}

		newQty := product.Quantity
		switch kind {
		case entity.MovementKindEntrada:
			newQty = newQty.Add(in.Quantity)
		case entity.MovementKindSalida:
			if product.Quantity.LessThan(in.Quantity) {
				return &domain.InsufficientStockError{
					ProductID: in.ProductID,
					Requested: in.Quantity,
					Available: product.Quantity,
				}
			}
			newQty = newQty.Sub(in.Quantity)
		default:
			return domain.ErrInvalidInput
		}

		if err := productRepo.UpdateQuantity(in.ProductID, newQty); err != nil {
			return err
		}

		now := time.Now()
		mov := &entity.Movement{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Kind:      kind,
			Quantity:  in.Quantity,
			Reference: in.Reference,
			CreatedAt: now,
			CreatedBy: in.UserID,
		}
		if err := movementRepo.Create(mov); err != nil {
			// Aborta la transacción completa: la cantidad vuelve a su valor
			// anterior y el fallo de auditoría se reporta, nunca se ignora.
			return fmt.Errorf("%w: %v", domain.ErrAuditWriteFailed, err)
		}

		result = &MovementResult{
			ProductID:   in.ProductID,
			Kind:        kind,
			Quantity:    in.Quantity,
			NewQuantity: newQty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
