package worker

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

var errMissingOrderID = errors.New("message has no order_id")

type Processor interface {
	Process(ctx context.Context, msg models.NewOrderMessage) error
}

// Consumer drains new_order deliveries one at a time. Unparseable messages
// are dropped, processing failures are returned to the queue.
type Consumer struct {
	Processor Processor
	Log       zerolog.Logger
}

func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info().Msg("new order consumer stopped")
			return
		case d, ok := <-deliveries:
			if !ok {
				c.Log.Info().Msg("deliveries closed")
				return
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	msg, err := decode(d.Body)
	if err != nil {
		c.Log.Error().Err(err).Bytes("body", d.Body).Msg("bad message, dropping")
		ordersFailed.WithLabelValues("malformed").Inc()
		_ = d.Nack(false, false)
		return
	}

	log := c.Log.With().Str("order_id", msg.OrderID).Int64("user_id", msg.UserID).Logger()

	if err := c.Processor.Process(ctx, msg); err != nil {
		log.Error().Err(err).Msg("processing failed, requeue")
		ordersFailed.WithLabelValues("processing").Inc()
		_ = d.Nack(false, true)
		return
	}

	ordersProcessed.Inc()
	if err := d.Ack(false); err != nil {
		log.Warn().Err(err).Msg("ack failed")
	}
}

func decode(body []byte) (models.NewOrderMessage, error) {
	var msg models.NewOrderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, err
	}
	if msg.OrderID == "" {
		return msg, errMissingOrderID
	}
	return msg, nil
}
