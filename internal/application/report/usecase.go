package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/bodega-api/internal/application/inventory"
	domaininv "github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// InventoryReportItem fila del reporte de inventario para el generador PDF.
type InventoryReportItem struct {
	Name        string
	Category    string
	Location    string
	LotCode     string
	UnitMeasure string
	Quantity    decimal.Decimal
	ExpiresAt   *time.Time
	LowStock    bool
	NearExpiry  bool
}

// InventoryPDFGenerator puerto para el generador del documento.
type InventoryPDFGenerator interface {
	GenerateInventoryReport(ctx context.Context, items []InventoryReportItem, generatedAt time.Time) ([]byte, error)
}

// InventoryReportUseCase arma el reporte PDF del inventario actual con las
// marcas de riesgo (stock bajo, próximo a vencer).
type InventoryReportUseCase struct {
	productRepo repository.ProductRepository
	generator   InventoryPDFGenerator
	riskCfg     appinventory.RiskConfig
}

// NewInventoryReportUseCase construye el caso de uso.
func NewInventoryReportUseCase(
	productRepo repository.ProductRepository,
	generator InventoryPDFGenerator,
	riskCfg appinventory.RiskConfig,
) *InventoryReportUseCase {
	if riskCfg.LowStockThreshold <= 0 {
		riskCfg.LowStockThreshold = domaininv.DefaultLowStockThreshold
	}
	if riskCfg.ExpiryWindowDays <= 0 {
		riskCfg.ExpiryWindowDays = domaininv.DefaultExpiryWindowDays
	}
	return &InventoryReportUseCase{
		productRepo: productRepo,
		generator:   generator,
		riskCfg:     riskCfg,
	}
}

// Generate devuelve los bytes del PDF con el inventario activo ordenado por
// nombre.
func (uc *InventoryReportUseCase) Generate(ctx context.Context) ([]byte, error) {
	products, err := uc.productRepo.ListActive()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]InventoryReportItem, 0, len(products))
	for _, p := range products {
		items = append(items, InventoryReportItem{
			Name:        p.Name,
			Category:    p.Category,
			Location:    p.Location,
			LotCode:     p.LotCode,
			UnitMeasure: p.UnitMeasure,
			Quantity:    p.Quantity,
			ExpiresAt:   p.ExpiresAt,
			LowStock:    domaininv.IsLowStock(p.Quantity, uc.riskCfg.LowStockThreshold),
			NearExpiry:  domaininv.IsNearExpiry(now, p.ExpiresAt, uc.riskCfg.ExpiryWindowDays),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return uc.generator.GenerateInventoryReport(ctx, items, now)
}
