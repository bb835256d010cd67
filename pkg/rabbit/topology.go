package rabbit

import amqp "github.com/rabbitmq/amqp091-go"

// DeclareQueue declares a durable, non-exclusive queue reachable through the
// default exchange by its own name. Safe to call from producers and consumers.
func DeclareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}
