package rabbit

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DialTimeout bounds a connect when ctx carries no deadline of its own.
const DialTimeout = 10 * time.Second

type Conn struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// Connect opens a connection and one channel. The TCP connect and the AMQP
// handshake both finish before ctx's deadline or fail.
func Connect(ctx context.Context, url string) (*Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := DialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Conn{Conn: conn, Ch: ch}, nil
}

func (c *Conn) Close() error {
	if c.Ch != nil {
		_ = c.Ch.Close()
	}
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}

// IsClosed reports whether the broker connection or channel went away.
func (c *Conn) IsClosed() bool {
	return c.Conn == nil || c.Conn.IsClosed() || c.Ch == nil || c.Ch.IsClosed()
}

// PublishTimeout caps a single publish when the caller's ctx allows longer.
func PublishTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}
