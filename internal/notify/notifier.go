package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
	"github.com/vyhuholl/order-management-rest-api/pkg/rabbit"
)

// Outcome of a best-effort publish. Callers never see the underlying error.
type Outcome int

const (
	Delivered Outcome = iota
	FailedIgnored
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case FailedIgnored:
		return "failed_ignored"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_notifications_total",
		Help: "New order notifications by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(notificationsTotal)
}

type session interface {
	Publish(ctx context.Context, queue string, msg models.NewOrderMessage) error
	IsClosed() bool
	Close() error
}

type dialFunc func(ctx context.Context, url, queue, appID string) (session, error)

// RabbitNotifier publishes NewOrderMessage to a durable queue. The broker
// connection is opened lazily and reopened after any failure. Dialing is
// bounded by the publish ctx, so a black-holed broker costs each caller at
// most its own deadline.
type RabbitNotifier struct {
	url   string
	queue string
	appID string
	log   zerolog.Logger
	dial  dialFunc

	mu   sync.Mutex
	sess session
}

func NewRabbitNotifier(url, queue, appID string, log zerolog.Logger) *RabbitNotifier {
	return &RabbitNotifier{url: url, queue: queue, appID: appID, log: log, dial: dialRabbit}
}

func (n *RabbitNotifier) Publish(ctx context.Context, orderID string, userID int64) Outcome {
	out := n.publish(ctx, models.NewOrderMessage{OrderID: orderID, UserID: userID})
	notificationsTotal.WithLabelValues(out.String()).Inc()
	return out
}

func (n *RabbitNotifier) publish(ctx context.Context, msg models.NewOrderMessage) Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()

	// the deadline may have passed while another caller held the lock
	if err := ctx.Err(); err != nil {
		n.log.Warn().Err(err).Str("order_id", msg.OrderID).Msg("new_order notification dropped before publish")
		return FailedIgnored
	}

	if n.sess == nil || n.sess.IsClosed() {
		n.dropSession()
		s, err := n.dial(ctx, n.url, n.queue, n.appID)
		if err != nil {
			n.log.Warn().Err(err).Str("order_id", msg.OrderID).Msg("broker unavailable, new_order notification dropped")
			return FailedIgnored
		}
		n.sess = s
	}

	pubCtx, cancel := rabbit.PublishTimeout(ctx)
	defer cancel()

	if err := n.sess.Publish(pubCtx, n.queue, msg); err != nil {
		n.log.Warn().Err(err).Str("order_id", msg.OrderID).Msg("publish new_order failed, notification dropped")
		n.dropSession()
		return FailedIgnored
	}
	return Delivered
}

// Connect opens the broker session eagerly so startup can report broker health.
func (n *RabbitNotifier) Connect(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sess != nil && !n.sess.IsClosed() {
		return nil
	}
	s, err := n.dial(ctx, n.url, n.queue, n.appID)
	if err != nil {
		return err
	}
	n.sess = s
	return nil
}

func (n *RabbitNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sess == nil {
		return nil
	}
	err := n.sess.Close()
	n.sess = nil
	return err
}

func (n *RabbitNotifier) dropSession() {
	if n.sess != nil {
		_ = n.sess.Close()
		n.sess = nil
	}
}

type rabbitSession struct {
	conn *rabbit.Conn
	pub  *rabbit.Publisher
}

func dialRabbit(ctx context.Context, url, queue, appID string) (session, error) {
	c, err := rabbit.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := rabbit.DeclareQueue(c.Ch, queue); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &rabbitSession{conn: c, pub: rabbit.NewPublisher(c.Ch, rabbit.DefaultExchange, appID)}, nil
}

func (s *rabbitSession) Publish(ctx context.Context, queue string, msg models.NewOrderMessage) error {
	return s.pub.PublishJSON(ctx, queue, msg)
}

func (s *rabbitSession) IsClosed() bool { return s.conn.IsClosed() }

func (s *rabbitSession) Close() error { return s.conn.Close() }
