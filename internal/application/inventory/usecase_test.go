package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

type brokenMovements struct{ repository.InventoryMovementRepository }

func (brokenMovements) Query(context.Context, repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return nil, errors.New("conexión perdida")
}

func TestMovementFilterFrom_ValoresPorDefecto(t *testing.T) {
	f, err := inventory.MovementFilterFrom(dto.MovementQuery{})
	require.NoError(t, err)
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Nil(t, f.Type)
}

func TestMovementFilterFrom_RangosInvalidos(t *testing.T) {
	cases := map[string]dto.MovementQuery{
		"limit cero":      {PageRequest: dto.PageRequest{Limit: ptr(0)}},
		"limit excedido":  {PageRequest: dto.PageRequest{Limit: ptr(1001)}},
		"offset negativo": {PageRequest: dto.PageRequest{Offset: ptr(-1)}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := inventory.MovementFilterFrom(q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := inventory.MovementFilterFrom(dto.MovementQuery{Type: ptr("transfer")})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestListMovements_FiltroCompuesto(t *testing.T) {
	f := newFixture()
	d := func(day int) *time.Time {
		v := time.Date(2024, 6, day, 12, 0, 0, 0, time.UTC)
		return &v
	}
	require.NoError(t, f.store.LoadMovements(
		entity.InventoryMovement{ProductID: 5, Quantity: 10, Type: entity.MovementTypeIn, Date: d(1)},
		entity.InventoryMovement{ProductID: 5, Quantity: -2, Type: entity.MovementTypeOut, Date: d(2)},
		entity.InventoryMovement{ProductID: 6, Quantity: -1, Type: entity.MovementTypeOut, Date: d(2)},
		entity.InventoryMovement{ProductID: 5, Quantity: -3, Type: entity.MovementTypeOut, Date: d(9)},
		entity.InventoryMovement{ProductID: 5, Quantity: -4, Type: entity.MovementTypeOut},
	))

	out, err := f.queries.ListMovements(context.Background(), dto.MovementQuery{
		ProductID: ptr(int64(5)),
		Type:      ptr("out"),
		ToDate:    d(5),
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)
}

func TestGetMovement(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateMovement(context.Background(), dto.CreateMovementRequest{ProductID: 1, Quantity: 1, Type: "in"})
	require.NoError(t, err)

	got, err := f.queries.GetMovement(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ProductID)

	_, err = f.queries.GetMovement(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.queries.GetMovement(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_ErrorDeRepositorioEsStorageFault(t *testing.T) {
	q := inventory.NewQueryUseCase(brokenMovements{}, nil)

	_, err := q.ListMovements(context.Background(), dto.MovementQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageFault)
	assert.False(t, domain.IsValidation(err))
}
