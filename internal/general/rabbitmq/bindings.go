package rabbitmq

import (
	"fmt"
	"ride-booking/internal/general/contracts"

	amqp "github.com/rabbitmq/amqp091-go"
)

func declareTopology(ch *amqp.Channel) error {
	// 1. Exchanges
	if err := ch.ExchangeDeclare(contracts.ExchangeBookingTopic, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", contracts.ExchangeBookingTopic, err)
	}

	// 2. Queues
	queues := []string{
		contracts.QueueBookingReceipts,
		contracts.QueueBookingFailures,
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	// 3. Bindings
	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{contracts.QueueBookingReceipts, contracts.ExchangeBookingTopic, contracts.RouteBookingCompleted},
		{contracts.QueueBookingFailures, contracts.ExchangeBookingTopic, contracts.RouteBookingFailedPrefix + "*"},
	}

	for _, b := range bindings {
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
