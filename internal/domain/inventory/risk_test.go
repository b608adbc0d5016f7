package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bodega-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// IsLowStock — umbral estricto
// ──────────────────────────────────────────────────────────────────────────────

func TestIsLowStock_BajoElUmbral(t *testing.T) {
	assert.True(t, inventory.IsLowStock(decimal.NewFromInt(9), 10),
		"9 < 10 debe ser stock bajo")
	assert.True(t, inventory.IsLowStock(decimal.Zero, 10),
		"cantidad 0 siempre es stock bajo con umbral positivo")
}

func TestIsLowStock_EnElUmbral_NoEsBajo(t *testing.T) {
	// El umbral es estricto: quantity == threshold no cuenta como bajo.
	assert.False(t, inventory.IsLowStock(decimal.NewFromInt(10), 10))
	assert.False(t, inventory.IsLowStock(decimal.NewFromInt(11), 10))
}

// ──────────────────────────────────────────────────────────────────────────────
// IsNearExpiry — ventana de vencimiento en días calendario
// ──────────────────────────────────────────────────────────────────────────────

func TestIsNearExpiry_DentroDeLaVentana(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	// Vence en 20 días con ventana de 30 → dentro de la ventana.
	in20 := now.AddDate(0, 0, 20)
	assert.True(t, inventory.IsNearExpiry(now, &in20, 30))

	// Vence en 40 días con ventana de 30 → fuera.
	in40 := now.AddDate(0, 0, 40)
	assert.False(t, inventory.IsNearExpiry(now, &in40, 30))
}

func TestIsNearExpiry_LimiteExactoDeLaVentana(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	in30 := now.AddDate(0, 0, 30)
	assert.True(t, inventory.IsNearExpiry(now, &in30, 30),
		"el día 30 exacto está incluido en la ventana")

	in31 := now.AddDate(0, 0, 31)
	assert.False(t, inventory.IsNearExpiry(now, &in31, 30))
}

func TestIsNearExpiry_HoyYVencidosQuedanFuera(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	// Vence hoy (día 0) → excluido de la proyección.
	today := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	assert.False(t, inventory.IsNearExpiry(now, &today, 30))

	// Ya vencido → excluido.
	yesterday := now.AddDate(0, 0, -1)
	assert.False(t, inventory.IsNearExpiry(now, &yesterday, 30))
}

func TestIsNearExpiry_SinFechaDeVencimiento(t *testing.T) {
	now := time.Now()
	assert.False(t, inventory.IsNearExpiry(now, nil, 30),
		"sin fecha de vencimiento nunca entra en la proyección")
}

// ──────────────────────────────────────────────────────────────────────────────
// DaysUntil — días calendario truncados a medianoche
// ──────────────────────────────────────────────────────────────────────────────

func TestDaysUntil_IgnoraLaHoraDelDia(t *testing.T) {
	// 23:59 de hoy a 00:01 de mañana sigue siendo 1 día calendario.
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, inventory.DaysUntil(now, tomorrow))
}

func TestDaysUntil_HoyEsCero(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, inventory.DaysUntil(now, later))
}

func TestDaysUntil_PasadoEsNegativo(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -5)
	assert.Equal(t, -5, inventory.DaysUntil(now, past))
}
