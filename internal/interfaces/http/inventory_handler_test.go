package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	apphttp "github.com/jhoicas/bodega-api/internal/interfaces/http"
	"github.com/jhoicas/bodega-api/internal/testutil"
)

const testProductID = "11111111-1111-1111-1111-111111111111"

// buildInventoryApp monta las rutas de inventario sobre el store en memoria,
// con auth real (JWT + RBAC) igual que el router de producción.
func buildInventoryApp(t *testing.T, initialQty int64) (*fiber.App, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedProduct(&entity.Product{
		ID:       testProductID,
		Name:     "Atún en lata",
		Quantity: decimal.NewFromInt(initialQty),
		Active:   true,
	})

	stockUC := inventory.NewStockMovementUseCase(testutil.NewMemTxRunner(store))
	activityUC := inventory.NewActivityUseCase(testutil.NewMemMovementRepo(store))
	riskUC := inventory.NewRiskUseCase(testutil.NewMemProductRepo(store), inventory.RiskConfig{
		LowStockThreshold: 10, ExpiryWindowDays: 30,
	})
	handler := apphttp.NewInventoryHandler(stockUC, activityUC, riskUC)

	app := fiber.New()
	inv := app.Group("/api/inventory", apphttp.AuthMiddleware(testJWTSecret))
	inv.Post("/receive", apphttp.RequireRole("admin", "bodeguero"), handler.Receive)
	inv.Post("/issue", apphttp.RequireRole("admin", "bodeguero", "vendedor"), handler.Issue)
	inv.Get("/movements", handler.Movements)
	inv.Get("/low-stock", handler.LowStock)
	return app, store
}

func postMovement(t *testing.T, app *fiber.App, path, role string, body map[string]interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive / Issue
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryHandler_ReceiveActualizaCantidad(t *testing.T) {
	app, store := buildInventoryApp(t, 10)

	resp := postMovement(t, app, "/api/inventory/receive", "bodeguero", map[string]interface{}{
		"product_id": testProductID,
		"quantity":   "15",
		"reference":  "factura F-88",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "entrada", out["kind"])
	assert.Equal(t, "25", out["new_quantity"])

	assert.True(t, store.ProductQuantity(testProductID).Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 1, store.MovementCount())
}

func TestInventoryHandler_IssueStockInsuficiente409ConDisponible(t *testing.T) {
	app, store := buildInventoryApp(t, 3)

	resp := postMovement(t, app, "/api/inventory/issue", "vendedor", map[string]interface{}{
		"product_id": testProductID,
		"quantity":   "7",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out["code"])
	assert.Equal(t, "3", out["available"], "el 409 debe incluir la cantidad disponible")

	// Sin escritura: cantidad intacta y libro vacío.
	assert.True(t, store.ProductQuantity(testProductID).Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 0, store.MovementCount())
}

func TestInventoryHandler_CantidadInvalida400(t *testing.T) {
	app, _ := buildInventoryApp(t, 10)

	// Fraccionaria, cero y negativa: todas deben rechazarse con 400.
	for _, qty := range []string{"2.5", "0", "-3"} {
		t.Run(qty, func(t *testing.T) {
			resp := postMovement(t, app, "/api/inventory/receive", "admin", map[string]interface{}{
				"product_id": testProductID,
				"quantity":   qty,
			})
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, "INVALID_QUANTITY", out["code"])
		})
	}
}

func TestInventoryHandler_ProductoInexistente404(t *testing.T) {
	app, _ := buildInventoryApp(t, 10)

	resp := postMovement(t, app, "/api/inventory/receive", "admin", map[string]interface{}{
		"product_id": "99999999-9999-9999-9999-999999999999",
		"quantity":   "1",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventoryHandler_VendedorNoPuedeRecibir(t *testing.T) {
	app, _ := buildInventoryApp(t, 10)

	resp := postMovement(t, app, "/api/inventory/receive", "vendedor", map[string]interface{}{
		"product_id": testProductID,
		"quantity":   "5",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"el rol vendedor no registra entradas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryHandler_MovementsFeed(t *testing.T) {
	app, _ := buildInventoryApp(t, 10)

	// Dos movimientos a través del endpoint real.
	resp := postMovement(t, app, "/api/inventory/receive", "admin", map[string]interface{}{
		"product_id": testProductID, "quantity": "5", "reference": "compra C-1",
	})
	resp.Body.Close()
	resp = postMovement(t, app, "/api/inventory/issue", "admin", map[string]interface{}{
		"product_id": testProductID, "quantity": "2", "reference": "venta V-1",
	})
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements", nil)
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Total     int `json:"total"`
		Movements []struct {
			ProductName string `json:"product_name"`
			Kind        string `json:"kind"`
			Reference   string `json:"reference"`
		} `json:"movements"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 2, out.Total)
	assert.Equal(t, "venta V-1", out.Movements[0].Reference, "más reciente primero")
	assert.Equal(t, "Atún en lata", out.Movements[0].ProductName)
}

func TestInventoryHandler_LowStock(t *testing.T) {
	app, _ := buildInventoryApp(t, 3) // 3 < umbral 10

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/low-stock", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Total    int `json:"total"`
		Products []struct {
			Name     string `json:"name"`
			LowStock bool   `json:"low_stock"`
		} `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "Atún en lata", out.Products[0].Name)
	assert.True(t, out.Products[0].LowStock)
}

func TestInventoryHandler_SinToken401(t *testing.T) {
	app, _ := buildInventoryApp(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
