package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

type fakeConn struct {
	msgs    []*nats.Msg
	flushes int
	err     error
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeConn) FlushTimeout(time.Duration) error {
	f.flushes++
	return nil
}

func sampleEvent() inventory.MovementCreatedEvent {
	return inventory.MovementCreatedEvent{
		EventID:    "evt-1",
		Movement:   dto.MovementResponse{ID: 1, ProductID: 12, Quantity: 50, Type: "in"},
		Stock:      dto.StockResponse{ID: 3, ProductID: 12, Quantity: 150},
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublishMovementCreated_PayloadJSON(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "inventory.movement.created")

	require.NoError(t, p.PublishMovementCreated(context.Background(), sampleEvent()))
	require.Len(t, conn.msgs, 1)
	msg := conn.msgs[0]
	assert.Equal(t, "inventory.movement.created", msg.Subject)
	assert.Equal(t, "evt-1", msg.Header.Get(nats.MsgIdHdr))
	assert.Zero(t, conn.flushes, "sin deadline no se espera flush")

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	mov := body["movement"].(map[string]any)
	assert.EqualValues(t, 12, mov["productId"])
	assert.EqualValues(t, 150, body["stock"].(map[string]any)["quantity"])
}

func TestPublishMovementCreated_FlushConDeadline(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "s")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, p.PublishMovementCreated(ctx, sampleEvent()))
	assert.Equal(t, 1, conn.flushes)
}

func TestPublishMovementCreated_ErrorDeConexion(t *testing.T) {
	conn := &fakeConn{err: nats.ErrConnectionClosed}
	p := newPublisher(conn, "s")

	err := p.PublishMovementCreated(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
}

func TestPublishMovementCreated_ContextoCancelado(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "s")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.PublishMovementCreated(ctx, sampleEvent()), context.Canceled)
	assert.Empty(t, conn.msgs)
}
