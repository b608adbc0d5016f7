// Package inventory contiene las reglas de negocio puras del inventario:
// predicados de riesgo (stock bajo, próximo a vencer) sin estado ni efectos.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto de los umbrales de riesgo (configurables vía INVENTORY_*).
const (
	DefaultLowStockThreshold = 10
	DefaultExpiryWindowDays  = 30
)

// IsLowStock reporta si la cantidad está por debajo del umbral crítico.
// El umbral es estricto: quantity == threshold no es stock bajo.
func IsLowStock(quantity decimal.Decimal, threshold int64) bool {
	return quantity.LessThan(decimal.NewFromInt(threshold))
}

// DaysUntil devuelve los días calendario entre now y date, ambos truncados
// a medianoche. Hoy cuenta como día 0; fechas pasadas dan negativo.
func DaysUntil(now, date time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return int(day.Sub(today).Hours() / 24)
}

// IsNearExpiry reporta si el producto vence dentro de la ventana de riesgo:
// 0 < días hasta el vencimiento <= windowDays. Hoy (día 0) queda excluido,
// igual que los productos ya vencidos y los que no tienen fecha (expiry nil).
func IsNearExpiry(now time.Time, expiry *time.Time, windowDays int) bool {
	if expiry == nil {
		return false
	}
	days := DaysUntil(now, *expiry)
	return days > 0 && days <= windowDays
}
