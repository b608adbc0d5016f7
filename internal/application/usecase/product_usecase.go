package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// ProductUseCase reglas de negocio para el catálogo de productos.
// La cantidad nunca se edita directamente: el alta registra la existencia
// inicial como un movimiento de entrada vía StockMovementUseCase.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	stockUC      *inventory.StockMovementUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	stockUC *inventory.StockMovementUseCase,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		stockUC:      stockUC,
	}
}

// Create da de alta un producto con cantidad 0 y, si hay existencia inicial,
// la registra como entrada (queda en el libro de movimientos).
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialQuantity.IsNegative() || !in.InitialQuantity.IsInteger() {
		return nil, domain.ErrInvalidQuantity
	}
	now := time.Now()
	receivedAt := now
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Category:    in.Category,
		Quantity:    decimal.Zero,
		UnitMeasure: in.UnitMeasure,
		LotCode:     in.LotCode,
		Location:    in.Location,
		ReceivedAt:  receivedAt,
		ExpiresAt:   in.ExpiresAt,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	if in.InitialQuantity.GreaterThan(decimal.Zero) {
		result, err := uc.stockUC.Receive(ctx, inventory.MovementInput{
			ProductID: product.ID,
			Quantity:  in.InitialQuantity,
			Reference: "existencia inicial",
			UserID:    userID,
		})
		if err != nil {
			// La entrada inicial se revirtió completa, así que la fila recién
			// creada no tiene movimientos: se elimina para no dejar un alta a
			// medias con cantidad 0.
			_ = uc.productRepo.Delete(product.ID)
			return nil, err
		}
		product.Quantity = result.NewQuantity
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List devuelve una página de productos.
func (uc *ProductUseCase) List(page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Update modifica campos descriptivos del producto. La cantidad no se toca.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.LotCode != nil {
		product.LotCode = *in.LotCode
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if in.ExpiresAt != nil {
		product.ExpiresAt = in.ExpiresAt
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete resuelve el borrado de un producto. Con historial de movimientos el
// borrado físico está prohibido (dejaría huérfanas las filas de auditoría):
// el producto se desactiva y deactivated=true. Sin historial sí se elimina
// la fila. Si no existe devuelve ErrNotFound.
func (uc *ProductUseCase) Delete(id string) (deactivated bool, err error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, domain.ErrNotFound
	}
	count, err := uc.movementRepo.CountByProduct(id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		if err := uc.productRepo.Deactivate(id); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := uc.productRepo.Delete(id); err != nil {
		return false, err
	}
	return false, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Quantity:    p.Quantity,
		UnitMeasure: p.UnitMeasure,
		LotCode:     p.LotCode,
		Location:    p.Location,
		ReceivedAt:  p.ReceivedAt,
		ExpiresAt:   p.ExpiresAt,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
