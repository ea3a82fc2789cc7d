package broker

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
)

// NATS is a Transport over a NATS connection.
type NATS struct {
	conn *nats.Conn
}

var _ Transport = (*NATS)(nil)

// Connect dials url. The connection keeps reconnecting until closed.
func Connect(url string, logger *log.Logger) (*NATS, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	nc, err := nats.Connect(url,
		nats.Name("prism"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return &NATS{conn: nc}, nil
}

func (n *NATS) Publish(subject string, data []byte) error {
	return n.conn.Publish(subject, data)
}

func (n *NATS) Subscribe(subject string, handler func(data []byte)) (func() error, error) {
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return sub.Unsubscribe, nil
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() error {
	if err := n.conn.Flush(); err != nil {
		n.conn.Close()
		return fmt.Errorf("flushing nats: %w", err)
	}
	n.conn.Close()
	return nil
}
