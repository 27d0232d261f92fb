// Package memory implementa el ledger y el stock en memoria. Sirve como doble de prueba
// y como almacén del modo desarrollo (STORE_DRIVER=memory).
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ inventory.TxRunner                     = (*TxRunner)(nil)
)

// Store estado compartido. Un único escritor a la vez (mu); las lecturas ven cada
// append con su ajuste de stock completo o no lo ven.
type Store struct {
	mu        sync.RWMutex
	movements []*entity.InventoryMovement
	maxMovID  int64
	stock     []*entity.Stock
	byProduct map[int64]int // productID -> índice en stock
	maxStkID  int64
	now       func() time.Time
}

// NewStore crea un almacén vacío con filas de stock iniciales opcionales
// (stock sembrado de forma independiente al ledger).
func NewStore(initialStock ...entity.Stock) *Store {
	s := &Store{byProduct: make(map[int64]int), now: time.Now}
	for _, st := range initialStock {
		c := st
		if c.ID == 0 {
			c.ID = s.maxStkID + 1
		}
		if c.ID > s.maxStkID {
			s.maxStkID = c.ID
		}
		s.byProduct[c.ProductID] = len(s.stock)
		s.stock = append(s.stock, &c)
	}
	return s
}

// LoadMovements carga movimientos históricos (fixtures/importaciones) conservando su ID y fecha.
// Cada uno pasa por el mismo validador que CreateMovement; no ajusta stock.
// Todo o nada: un movimiento inválido o un ID repetido deja el ledger intacto.
func (s *Store) LoadMovements(movs ...entity.InventoryMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := make(map[int64]struct{}, len(s.movements)+len(movs))
	for _, m := range s.movements {
		used[m.ID] = struct{}{}
	}
	maxID := s.maxMovID
	staged := make([]*entity.InventoryMovement, 0, len(movs))
	for _, m := range movs {
		if err := dominv.Validate(dominv.MovementCandidate{
			ProductID: m.ProductID, Quantity: m.Quantity, Type: m.Type,
		}); err != nil {
			return err
		}
		c := m
		if c.ID == 0 {
			c.ID = maxID + 1
		}
		if _, dup := used[c.ID]; dup {
			return domain.NewMovementError(domain.ErrInvalidInput, fmt.Sprintf("id de movimiento %d repetido", c.ID))
		}
		used[c.ID] = struct{}{}
		if c.ID > maxID {
			maxID = c.ID
		}
		staged = append(staged, c.Clone())
	}
	s.movements = append(s.movements, staged...)
	s.maxMovID = maxID
	return nil
}

// ── operaciones sin bloqueo (el llamador sostiene mu) ────────────────────────

func (s *Store) appendLocked(m *entity.InventoryMovement) {
	m.ID = s.maxMovID + 1
	if m.Date == nil {
		d := s.now().UTC()
		m.Date = &d
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	s.maxMovID = m.ID
	s.movements = append(s.movements, m.Clone())
}

func (s *Store) queryMovementsLocked(f repository.MovementFilter) []*entity.InventoryMovement {
	matched := make([]*entity.InventoryMovement, 0)
	for _, m := range s.movements {
		if f.Matches(m) {
			matched = append(matched, m)
		}
	}
	page := repository.Paginate(matched, f.Limit, f.Offset)
	out := make([]*entity.InventoryMovement, 0, len(page))
	for _, m := range page {
		out = append(out, m.Clone())
	}
	return out
}

func (s *Store) getMovementLocked(id int64) *entity.InventoryMovement {
	for _, m := range s.movements {
		if m.ID == id {
			return m.Clone()
		}
	}
	return nil
}

// applyDeltaLocked devuelve la fila actualizada y una función que deshace el cambio.
// Si el resultado no cabe en int64 no modifica nada.
func (s *Store) applyDeltaLocked(productID, delta int64, at time.Time) (*entity.Stock, func(), error) {
	if idx, ok := s.byProduct[productID]; ok {
		row := s.stock[idx]
		next, err := dominv.NextStockQuantity(row.Quantity, delta)
		if err != nil {
			return nil, nil, err
		}
		prev := *row
		row.Quantity = next
		row.UpdatedAt = at
		return row.Clone(), func() { *row = prev }, nil
	}
	row := &entity.Stock{ID: s.maxStkID + 1, ProductID: productID, Quantity: delta, UpdatedAt: at}
	prevMax := s.maxStkID
	s.maxStkID = row.ID
	s.byProduct[productID] = len(s.stock)
	s.stock = append(s.stock, row)
	return row.Clone(), func() {
		s.stock = s.stock[:len(s.stock)-1]
		delete(s.byProduct, productID)
		s.maxStkID = prevMax
	}, nil
}

func (s *Store) queryStockLocked(f repository.StockFilter) []*entity.Stock {
	matched := make([]*entity.Stock, 0)
	for _, st := range s.stock {
		if f.ProductID != nil && st.ProductID != *f.ProductID {
			continue
		}
		matched = append(matched, st)
	}
	page := repository.Paginate(matched, f.Limit, f.Offset)
	out := make([]*entity.Stock, 0, len(page))
	for _, st := range page {
		out = append(out, st.Clone())
	}
	return out
}

// ── repositorios públicos (toman el bloqueo en cada llamada) ────────────────

// MovementRepo adaptador del ledger en memoria.
type MovementRepo struct{ s *Store }

// NewInventoryMovementRepository construye el adaptador.
func NewInventoryMovementRepository(s *Store) *MovementRepo { return &MovementRepo{s: s} }

// Append agrega un movimiento. Fuera de TxRunner no ajusta stock.
func (r *MovementRepo) Append(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appendLocked(m)
	return nil
}

// Query lista movimientos filtrados en orden de inserción.
func (r *MovementRepo) Query(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.queryMovementsLocked(f), nil
}

// GetByID devuelve nil, nil si no existe.
func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.getMovementLocked(id), nil
}

// StockRepo adaptador de stock en memoria.
type StockRepo struct{ s *Store }

// NewStockRepository construye el adaptador.
func NewStockRepository(s *Store) *StockRepo { return &StockRepo{s: s} }

// ApplyDelta suma delta al stock del producto (crea la fila si no existe).
func (r *StockRepo) ApplyDelta(_ context.Context, productID, delta int64, at time.Time) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, _, err := r.s.applyDeltaLocked(productID, delta, at)
	return row, err
}

// Query lista filas de stock en orden de creación.
func (r *StockRepo) Query(_ context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.queryStockLocked(f), nil
}
