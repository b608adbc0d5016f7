// Package testutil contiene dobles de prueba en memoria para los puertos de
// persistencia, pensados para ejercitar los casos de uso sin PostgreSQL.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// MemStore almacén en memoria compartido por los repos fake.
type MemStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.Movement

	// FailMovementCreate fuerza el error indicado en el próximo insert de
	// movimiento, para probar el rollback del caso de uso.
	FailMovementCreate error
}

// NewMemStore crea un almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{products: make(map[string]*entity.Product)}
}

// SeedProduct inserta un producto directamente (sin pasar por casos de uso).
func (s *MemStore) SeedProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// ProductQuantity devuelve la cantidad actual del producto.
func (s *MemStore) ProductQuantity(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Quantity
	}
	return decimal.Zero
}

// MovementCount devuelve el total de movimientos registrados.
func (s *MemStore) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// Movements devuelve una copia de los movimientos registrados.
func (s *MemStore) Movements() []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// snapshot copia el estado completo para poder revertirlo.
func (s *MemStore) snapshot() (map[string]*entity.Product, []*entity.Movement) {
	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	movements := make([]*entity.Movement, len(s.movements))
	copy(movements, s.movements)
	return products, movements
}

func (s *MemStore) restore(products map[string]*entity.Product, movements []*entity.Movement) {
	s.products = products
	s.movements = movements
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// MemTxRunner implementa inventory.TxRunner sobre MemStore. Serializa las
// transacciones con el mutex del store (equivalente al lock de fila en
// PostgreSQL) y revierte al snapshot previo si fn devuelve error.
type MemTxRunner struct {
	Store *MemStore
}

// NewMemTxRunner construye el runner sobre el store.
func NewMemTxRunner(store *MemStore) *MemTxRunner {
	return &MemTxRunner{Store: store}
}

// Run ejecuta fn con repos ligados al store bajo lock; rollback si hay error.
func (r *MemTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()

	products, movements := r.Store.snapshot()
	err := fn(
		&MemProductRepo{store: r.Store, locked: true},
		&MemMovementRepo{store: r.Store, locked: true},
	)
	if err != nil {
		r.Store.restore(products, movements)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ProductRepository
// ──────────────────────────────────────────────────────────────────────────────

// MemProductRepo implementación en memoria de repository.ProductRepository.
// locked=true cuando el repo se creó dentro de MemTxRunner.Run (el mutex ya
// está tomado); fuera de transacción cada método toma el lock.
type MemProductRepo struct {
	store  *MemStore
	locked bool
}

// NewMemProductRepo crea el repo fuera de transacción.
func NewMemProductRepo(store *MemStore) *MemProductRepo {
	return &MemProductRepo{store: store}
}

var _ repository.ProductRepository = (*MemProductRepo)(nil)

func (r *MemProductRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *MemProductRepo) Create(p *entity.Product) error {
	defer r.lock()()
	if _, exists := r.store.products[p.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *MemProductRepo) GetByID(id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *MemProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *MemProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	defer r.lock()()
	all := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ReceivedAt.After(all[j].ReceivedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemProductRepo) ListActive() ([]*entity.Product, error) {
	defer r.lock()()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemProductRepo) Update(p *entity.Product) error {
	defer r.lock()()
	if _, ok := r.store.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *MemProductRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	defer r.lock()()
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	return nil
}

func (r *MemProductRepo) Deactivate(id string) error {
	defer r.lock()()
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	return nil
}

func (r *MemProductRepo) Delete(id string) error {
	defer r.lock()()
	delete(r.store.products, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepository
// ──────────────────────────────────────────────────────────────────────────────

// MemMovementRepo implementación en memoria de repository.MovementRepository.
type MemMovementRepo struct {
	store  *MemStore
	locked bool
}

// NewMemMovementRepo crea el repo fuera de transacción.
func NewMemMovementRepo(store *MemStore) *MemMovementRepo {
	return &MemMovementRepo{store: store}
}

var _ repository.MovementRepository = (*MemMovementRepo)(nil)

func (r *MemMovementRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *MemMovementRepo) Create(m *entity.Movement) error {
	defer r.lock()()
	if r.store.FailMovementCreate != nil {
		err := r.store.FailMovementCreate
		r.store.FailMovementCreate = nil
		return err
	}
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *MemMovementRepo) ListRecent(limit int) ([]*entity.MovementWithProduct, error) {
	defer r.lock()()
	out := make([]*entity.MovementWithProduct, 0, limit)
	for i := len(r.store.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.store.movements[i]
		name := ""
		if p, ok := r.store.products[m.ProductID]; ok {
			name = p.Name
		}
		out = append(out, &entity.MovementWithProduct{Movement: *m, ProductName: name})
	}
	return out, nil
}

func (r *MemMovementRepo) ListByKind(kind string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	defer r.lock()()
	var matched []*entity.Movement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.Kind != kind {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MemMovementRepo) CountByProduct(productID string) (int64, error) {
	defer r.lock()()
	var n int64
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}
