package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	domaininv "github.com/jhoicas/bodega-api/internal/domain/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// RiskConfig umbrales de las proyecciones de riesgo.
type RiskConfig struct {
	LowStockThreshold int64
	ExpiryWindowDays  int
}

// RiskUseCase proyecciones de solo lectura sobre el snapshot de productos
// activos: stock bajo y próximos a vencer. Sin estado propio ni caché; se
// recalcula en cada llamada y no muta nada.
type RiskUseCase struct {
	productRepo repository.ProductRepository
	cfg         RiskConfig
}

// NewRiskUseCase construye el caso de uso; umbrales en cero toman el default.
func NewRiskUseCase(productRepo repository.ProductRepository, cfg RiskConfig) *RiskUseCase {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = domaininv.DefaultLowStockThreshold
	}
	if cfg.ExpiryWindowDays <= 0 {
		cfg.ExpiryWindowDays = domaininv.DefaultExpiryWindowDays
	}
	return &RiskUseCase{productRepo: productRepo, cfg: cfg}
}

// LowStock devuelve los productos activos con cantidad bajo el umbral,
// ordenados de menor a mayor cantidad.
func (uc *RiskUseCase) LowStock(ctx context.Context) ([]dto.ProductRiskResponse, error) {
	products, err := uc.productRepo.ListActive()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.ProductRiskResponse, 0)
	for _, p := range products {
		if domaininv.IsLowStock(p.Quantity, uc.cfg.LowStockThreshold) {
			out = append(out, uc.toRisk(p, now))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].Quantity.LessThan(out[j].Quantity)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// NearExpiry devuelve los productos activos que vencen dentro de la ventana
// (hoy excluido), ordenados por fecha de vencimiento ascendente.
func (uc *RiskUseCase) NearExpiry(ctx context.Context) ([]dto.ProductRiskResponse, error) {
	products, err := uc.productRepo.ListActive()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.ProductRiskResponse, 0)
	for _, p := range products {
		if domaininv.IsNearExpiry(now, p.ExpiresAt, uc.cfg.ExpiryWindowDays) {
			out = append(out, uc.toRisk(p, now))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(*out[j].ExpiresAt)
	})
	return out, nil
}

func (uc *RiskUseCase) toRisk(p *entity.Product, now time.Time) dto.ProductRiskResponse {
	r := dto.ProductRiskResponse{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Quantity:   p.Quantity,
		Location:   p.Location,
		ExpiresAt:  p.ExpiresAt,
		LowStock:   domaininv.IsLowStock(p.Quantity, uc.cfg.LowStockThreshold),
		NearExpiry: domaininv.IsNearExpiry(now, p.ExpiresAt, uc.cfg.ExpiryWindowDays),
	}
	if p.ExpiresAt != nil {
		days := domaininv.DaysUntil(now, *p.ExpiresAt)
		r.DaysUntilExpiry = &days
	}
	return r
}
