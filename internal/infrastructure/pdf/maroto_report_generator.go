// Package pdf implementa la generación del reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de Inventario + fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cat | Ubic | Lote | Cant | Vence | Riesgo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: totales (items, stock bajo, próximos a vencer)      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/bodega-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.InventoryPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateInventoryReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateInventoryReport(
	_ context.Context,
	items []report.InventoryReportItem,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, it := range items {
		m.AddRows(itemRow(it))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(summaryRow(items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Reporte de Inventario", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 5, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(7).Add(
		header(3, "Producto"),
		header(2, "Categoría"),
		header(2, "Ubicación"),
		header(1, "Lote"),
		header(1, "Cant."),
		header(1, "Vence"),
		header(2, "Riesgo"),
	)
}

func itemRow(it report.InventoryReportItem) core.Row {
	expiry := "—"
	if it.ExpiresAt != nil {
		expiry = it.ExpiresAt.Format("02/01/06")
	}
	risk, riskColor := riskLabel(it)
	cell := func(size int, value string) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Top: 1}))
	}
	return row.New(6).Add(
		cell(3, it.Name),
		cell(2, it.Category),
		cell(2, it.Location),
		cell(1, it.LotCode),
		cell(1, it.Quantity.String()+" "+it.UnitMeasure),
		cell(1, expiry),
		col.New(2).Add(text.New(risk, props.Text{Size: 8, Top: 1, Color: riskColor})),
	)
}

func summaryRow(items []report.InventoryReportItem) core.Row {
	var lowStock, nearExpiry int
	for _, it := range items {
		if it.LowStock {
			lowStock++
		}
		if it.NearExpiry {
			nearExpiry++
		}
	}
	summary := fmt.Sprintf("%d productos — %d con stock bajo, %d próximos a vencer",
		len(items), lowStock, nearExpiry)
	return row.New(8).Add(
		col.New(12).Add(text.New(summary, props.Text{
			Size: 9, Style: fontstyle.Bold, Top: 2, Align: align.Right,
		})),
	)
}

func riskLabel(it report.InventoryReportItem) (string, *props.Color) {
	switch {
	case it.LowStock && it.NearExpiry:
		return "stock bajo, por vencer", colorAlert
	case it.LowStock:
		return "stock bajo", colorAlert
	case it.NearExpiry:
		return "por vencer", colorAlert
	default:
		return "", colorGray
	}
}
