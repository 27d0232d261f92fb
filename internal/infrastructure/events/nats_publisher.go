package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

var _ inventory.EventPublisher = (*NATSPublisher)(nil)

// Header con el id del evento; permite deduplicar en consumidores JetStream.
const headerEventID = nats.MsgIdHdr

// msgPublisher subconjunto de *nats.Conn usado por el publicador.
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
	FlushTimeout(timeout time.Duration) error
}

// NATSPublisher publica movement.created en un subject NATS como JSON.
type NATSPublisher struct {
	conn    msgPublisher
	subject string
	flush   time.Duration
}

// Connect abre la conexión NATS con reconexión infinita y nombre de cliente.
func Connect(url, clientName string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect NATS %s: %w", url, err)
	}
	return nc, nil
}

// NewNATSPublisher construye el publicador sobre una conexión abierta.
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return newPublisher(conn, subject)
}

func newPublisher(conn msgPublisher, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject, flush: 2 * time.Second}
}

// PublishMovementCreated serializa el evento y lo publica; con deadline en ctx espera el flush.
func (p *NATSPublisher) PublishMovementCreated(ctx context.Context, evt inventory.MovementCreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal movement.created: %w", err)
	}
	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(headerEventID, evt.EventID)
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	if _, ok := ctx.Deadline(); ok {
		if err := p.conn.FlushTimeout(p.flush); err != nil {
			return fmt.Errorf("flush %s: %w", p.subject, err)
		}
	}
	return nil
}
