package rabbit

import amqp "github.com/rabbitmq/amqp091-go"

// Consumer is a named manual-ack subscription. The tag lets shutdown stop
// new deliveries while the one in hand is still being acked.
type Consumer struct {
	ch  *amqp.Channel
	tag string
}

func NewConsumer(ch *amqp.Channel, tag string) *Consumer {
	return &Consumer{ch: ch, tag: tag}
}

// Consume limits the broker to prefetch unacked deliveries for this channel.
func (c *Consumer) Consume(queue string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, c.tag, false, false, false, false, nil)
}

// Cancel stops the broker from sending more deliveries. The delivery channel
// closes once those already in flight are drained.
func (c *Consumer) Cancel() error {
	return c.ch.Cancel(c.tag, false)
}
