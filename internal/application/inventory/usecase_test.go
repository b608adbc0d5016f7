package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/testutil"
)

func newStockFixture(t *testing.T, initialQty int64) (*inventory.StockMovementUseCase, *testutil.MemStore, string) {
	t.Helper()
	store := testutil.NewMemStore()
	productID := "11111111-1111-1111-1111-111111111111"
	store.SeedProduct(&entity.Product{
		ID:         productID,
		Name:       "Arroz Diana 500g",
		Category:   "granos",
		Quantity:   decimal.NewFromInt(initialQty),
		Active:     true,
		ReceivedAt: time.Now(),
	})
	uc := inventory.NewStockMovementUseCase(testutil.NewMemTxRunner(store))
	return uc, store, productID
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_CantidadInvalida(t *testing.T) {
	uc, store, productID := newStockFixture(t, 10)

	cases := []struct {
		name string
		qty  decimal.Decimal
	}{
		{"cero", decimal.Zero},
		{"negativa", decimal.NewFromInt(-3)},
		{"fraccionaria", decimal.NewFromFloat(2.5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Receive(context.Background(), inventory.MovementInput{
				ProductID: productID,
				Quantity:  tc.qty,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		})
	}

	// Nada debe haberse escrito.
	assert.True(t, store.ProductQuantity(productID).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 0, store.MovementCount())
}

func TestIssue_ProductoInexistente(t *testing.T) {
	uc, _, _ := newStockFixture(t, 10)

	_, err := uc.Issue(context.Background(), inventory.MovementInput{
		ProductID: "99999999-9999-9999-9999-999999999999",
		Quantity:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssue_SinProductID(t *testing.T) {
	uc, _, _ := newStockFixture(t, 10)

	_, err := uc.Issue(context.Background(), inventory.MovementInput{
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceive_ProductoDesactivado(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedProduct(&entity.Product{
		ID:       "inactivo-1",
		Name:     "Café descontinuado",
		Quantity: decimal.NewFromInt(5),
		Active:   false,
	})
	uc := inventory.NewStockMovementUseCase(testutil.NewMemTxRunner(store))

	_, err := uc.Receive(context.Background(), inventory.MovementInput{
		ProductID: "inactivo-1",
		Quantity:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrProductInactive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SumaCantidadYRegistraEntrada(t *testing.T) {
	uc, store, productID := newStockFixture(t, 10)

	result, err := uc.Receive(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  decimal.NewFromInt(15),
		Reference: "factura F-001",
		UserID:    "user-1",
	})
	require.NoError(t, err)
	assert.True(t, result.NewQuantity.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, entity.MovementKindEntrada, result.Kind)

	// Exactamente un movimiento, con los datos de la operación.
	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindEntrada, movs[0].Kind)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "factura F-001", movs[0].Reference)
	assert.Equal(t, "user-1", movs[0].CreatedBy)
	assert.False(t, movs[0].CreatedAt.IsZero(), "el servidor debe asignar CreatedAt")
}

func TestIssue_DescuentaHastaCeroYLuegoRechaza(t *testing.T) {
	uc, store, productID := newStockFixture(t, 10)
	ctx := context.Background()

	// Primera salida: deja la cantidad en 0.
	result, err := uc.Issue(ctx, inventory.MovementInput{
		ProductID: productID,
		Quantity:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, result.NewQuantity.IsZero())

	// Segunda salida: nada disponible → error con available=0 y sin escritura.
	_, err = uc.Issue(ctx, inventory.MovementInput{
		ProductID: productID,
		Quantity:  decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.IsZero(), "available debe reportar la cantidad al momento del rechazo")

	assert.True(t, store.ProductQuantity(productID).IsZero())
	assert.Equal(t, 1, store.MovementCount(), "la salida rechazada no genera movimiento")
}

func TestIssue_StockInsuficienteReportaDisponible(t *testing.T) {
	uc, _, productID := newStockFixture(t, 3)

	_, err := uc.Issue(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  decimal.NewFromInt(7),
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(3)))
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(7)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia — serialización por producto
// ──────────────────────────────────────────────────────────────────────────────

// Dos salidas concurrentes por el total disponible: exactamente una debe
// aplicarse; la otra ve la cantidad ya descontada y falla por stock.
func TestIssue_ConcurrenciaSoloUnaGana(t *testing.T) {
	uc, store, productID := newStockFixture(t, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Issue(ctx, inventory.MovementInput{
				ProductID: productID,
				Quantity:  decimal.NewFromInt(10),
			})
		}(i)
	}
	wg.Wait()

	var oks, rejected int
	for _, err := range errs {
		if err == nil {
			oks++
		} else if errors.Is(err, domain.ErrInsufficientStock) {
			rejected++
		}
	}
	assert.Equal(t, 1, oks, "exactamente una salida debe aplicarse")
	assert.Equal(t, 1, rejected, "la otra debe rechazarse por stock insuficiente")

	assert.True(t, store.ProductQuantity(productID).IsZero(),
		"la cantidad nunca debe quedar negativa")
	assert.Equal(t, 1, store.MovementCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad — fallo de auditoría revierte todo
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_FalloDeAuditoriaRevierteLaCantidad(t *testing.T) {
	uc, store, productID := newStockFixture(t, 10)
	store.FailMovementCreate = errors.New("disco lleno")

	_, err := uc.Issue(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  decimal.NewFromInt(4),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuditWriteFailed)

	// La transacción completa se revirtió: cantidad intacta, sin movimientos.
	assert.True(t, store.ProductQuantity(productID).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 0, store.MovementCount())
}
