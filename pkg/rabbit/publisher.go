package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange routes by queue name.
const DefaultExchange = ""

// Publisher sends persistent JSON messages stamped with the sending app.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
	appID    string
}

func NewPublisher(ch *amqp.Channel, exchange, appID string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, appID: appID}
}

// PublishJSON encodes v and publishes it with delivery mode 2 so the message
// survives a broker restart on a durable queue.
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", routingKey, err)
	}
	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		AppId:        p.appID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
