package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta callbacks con el bloqueo de escritura del Store tomado.
// Si fn falla, los cambios se deshacen en orden inverso (equivalente a Rollback).
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run bloquea el Store, ejecuta fn con repos atados a la "transacción" y confirma o deshace.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx := &memTx{s: r.s}
	if err := fn(&txMovementRepo{tx: tx}, &txStockRepo{tx: tx}); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type memTx struct {
	s    *Store
	undo []func()
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

type txMovementRepo struct{ tx *memTx }

func (r *txMovementRepo) Append(_ context.Context, m *entity.InventoryMovement) error {
	s := r.tx.s
	prevLen, prevMax := len(s.movements), s.maxMovID
	s.appendLocked(m)
	r.tx.undo = append(r.tx.undo, func() {
		s.movements = s.movements[:prevLen]
		s.maxMovID = prevMax
	})
	return nil
}

func (r *txMovementRepo) Query(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.tx.s.queryMovementsLocked(f), nil
}

func (r *txMovementRepo) GetByID(_ context.Context, id int64) (*entity.InventoryMovement, error) {
	return r.tx.s.getMovementLocked(id), nil
}

type txStockRepo struct{ tx *memTx }

func (r *txStockRepo) ApplyDelta(_ context.Context, productID, delta int64, at time.Time) (*entity.Stock, error) {
	row, undo, err := r.tx.s.applyDeltaLocked(productID, delta, at)
	if err != nil {
		return nil, err
	}
	r.tx.undo = append(r.tx.undo, undo)
	return row, nil
}

func (r *txStockRepo) Query(_ context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	return r.tx.s.queryStockLocked(f), nil
}
