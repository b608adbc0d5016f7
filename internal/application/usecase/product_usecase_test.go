package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/testutil"
)

func newProductFixture(t *testing.T) (*usecase.ProductUseCase, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	productRepo := testutil.NewMemProductRepo(store)
	movementRepo := testutil.NewMemMovementRepo(store)
	stockUC := inventory.NewStockMovementUseCase(testutil.NewMemTxRunner(store))
	return usecase.NewProductUseCase(productRepo, movementRepo, stockUC), store
}

func TestProductCreate_ExistenciaInicialQuedaEnElLibro(t *testing.T) {
	uc, store := newProductFixture(t)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name:            "Frijol cargamanto",
		Category:        "granos",
		InitialQuantity: decimal.NewFromInt(40),
		UnitMeasure:     "kg",
	})
	require.NoError(t, err)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(40)))
	assert.True(t, out.Active)

	// La existencia inicial no es un ajuste directo: queda como entrada.
	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, "entrada", movs[0].Kind)
	assert.Equal(t, "existencia inicial", movs[0].Reference)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(40)))
}

func TestProductCreate_SinExistenciaInicial(t *testing.T) {
	uc, store := newProductFixture(t)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{Name: "Panela"})
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero())
	assert.Equal(t, 0, store.MovementCount())
}

// Si la entrada inicial falla, el alta no debe quedar a medias: la fila
// recién creada se elimina y el libro queda vacío.
func TestProductCreate_FalloDeEntradaInicialNoDejaFilaAMedias(t *testing.T) {
	uc, store := newProductFixture(t)
	store.FailMovementCreate = errors.New("disco lleno")

	out, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Avena", InitialQuantity: decimal.NewFromInt(20),
	})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 0, store.MovementCount())

	// El producto no debe existir con cantidad 0.
	products, err := testutil.NewMemProductRepo(store).List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "user-1", dto.CreateProductRequest{
		Name: "Lentejas", InitialQuantity: decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Create(ctx, "user-1", dto.CreateProductRequest{
		Name: "Lentejas", InitialQuantity: decimal.NewFromFloat(1.5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestProductUpdate_NoTocaLaCantidad(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{
		Name: "Aceite", InitialQuantity: decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	newName := "Aceite de girasol"
	updated, err := uc.Update(created.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Aceite de girasol", updated.Name)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(12)),
		"la cantidad solo cambia vía movimientos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete — borrado físico solo sin historial
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDelete_SinMovimientosBorraLaFila(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{Name: "Harina"})
	require.NoError(t, err)

	deactivated, err := uc.Delete(created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated, "sin historial se elimina físicamente")

	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductDelete_ConHistorialSoloDesactiva(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	// Con existencia inicial ya hay un movimiento en el libro.
	created, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{
		Name: "Chocolate", InitialQuantity: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	deactivated, err := uc.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, deactivated, "con historial el producto se desactiva, no se borra")

	// La fila sigue existiendo, marcada inactiva.
	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)
}

func TestProductDelete_Inexistente(t *testing.T) {
	uc, _ := newProductFixture(t)

	_, err := uc.Delete("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
