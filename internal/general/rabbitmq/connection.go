package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ride-booking/internal/general/config"
	"ride-booking/internal/general/logger"
	"ride-booking/internal/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 5 * time.Second
	maxRedialDelay = 30 * time.Second
)

// Client is a publish-only RabbitMQ connector for booking events. It owns a
// single confirming channel, declares the booking topology on every (re)dial,
// and redials in the background when the broker drops. The service never
// consumes, so there is no delivery side at all.
type Client struct {
	url    string
	logger *logger.Logger
	logCtx context.Context // detached from request cancellation

	// mu guards the connection and serializes publishes, keeping the
	// confirm stream aligned one-to-one with published messages.
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms chan amqp.Confirmation

	closed chan struct{}
	redial chan struct{}
}

var _ ports.EventPublisher = (*Client)(nil)

// Connect dials the broker, declares the booking topology, and starts the
// background redial loop. Further connection failures are retried with
// backoff; only the initial dial is fatal.
func Connect(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Client, error) {
	client := &Client{
		url:    fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port),
		logger: logger,
		logCtx: context.WithoutCancel(ctx),
		closed: make(chan struct{}),
		redial: make(chan struct{}, 1),
	}

	if err := client.dial(); err != nil {
		return nil, err
	}
	go client.redialLoop()

	return client, nil
}

// Close stops the redial loop and tears down the channel and connection.
func (client *Client) Close() {
	select {
	case <-client.closed:
	default:
		close(client.closed)
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.ch != nil {
		_ = client.ch.Close()
		client.ch = nil
	}
	if client.conn != nil {
		_ = client.conn.Close()
		client.conn = nil
	}
	client.confirms = nil
}

// Publish sends one persistent JSON message to an exchange and waits for the
// broker's confirm. Mandatory routing is on, so events that match no queue
// binding come back as returns instead of vanishing.
func (client *Client) Publish(exchange, routingKey string, body []byte) error {
	client.mu.Lock()
	defer client.mu.Unlock()

	if client.ch == nil || client.ch.IsClosed() {
		return errors.New("rabbitmq: not connected")
	}

	ctx, cancel := context.WithTimeout(client.logCtx, publishTimeout)
	defer cancel()

	err := client.ch.PublishWithContext(ctx, exchange, routingKey, true, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	select {
	case c, ok := <-client.confirms:
		if !ok {
			return errors.New("rabbitmq: channel closed while awaiting confirm")
		}
		if !c.Ack {
			return fmt.Errorf("publish %s: broker nacked the event", routingKey)
		}
		return nil
	case <-ctx.Done():
		// consume the late confirm if it shows up, so the stream stays
		// aligned for the next publish on this channel
		select {
		case <-client.confirms:
		case <-time.After(publishTimeout):
		}
		return fmt.Errorf("publish %s: %w", routingKey, ctx.Err())
	}
}

// dial opens a fresh connection and confirming channel, re-declares the
// booking topology, and installs them in place of any previous pair.
func (client *Client) dial() error {
	conn, err := amqp.DialConfig(client.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		client.logger.Error(client.logCtx, "broker_dial_failed", "Failed to dial RabbitMQ", err, nil)
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err == nil {
		err = declareTopology(ch)
	}
	if err == nil {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = conn.Close()
		client.logger.Error(client.logCtx, "broker_setup_failed", "Failed to set up booking topology", err, nil)
		return fmt.Errorf("rabbitmq setup: %w", err)
	}

	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	// unroutable booking events come back here; log them, nothing retries
	returns := ch.NotifyReturn(make(chan amqp.Return, 1))
	go func() {
		for r := range returns {
			client.logger.Error(client.logCtx, "booking_event_unroutable",
				"Booking event matched no queue binding",
				fmt.Errorf("code=%d text=%s", r.ReplyCode, r.ReplyText),
				map[string]any{"exchange": r.Exchange, "routing_key": r.RoutingKey},
			)
		}
	}()

	client.mu.Lock()
	if client.ch != nil && !client.ch.IsClosed() {
		_ = client.ch.Close()
	}
	client.conn = conn
	client.ch = ch
	client.confirms = confirms
	client.mu.Unlock()

	// a closed connection or channel queues exactly one redial request
	go func() {
		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-client.closed:
			return
		case <-connClosed:
		case <-chClosed:
		}
		select {
		case client.redial <- struct{}{}:
		default:
		}
	}()

	client.logger.Info(client.logCtx, "broker_connected", "RabbitMQ connection established", nil)
	return nil
}

// redialLoop re-establishes the connection after a drop, backing off between
// attempts, until Close.
func (client *Client) redialLoop() {
	delay := time.Second
	for {
		select {
		case <-client.closed:
			return
		case <-client.redial:
		}

		for {
			select {
			case <-client.closed:
				return
			default:
			}

			if err := client.dial(); err == nil {
				delay = time.Second
				client.logger.Info(client.logCtx, "broker_reconnected", "Reconnected to RabbitMQ", nil)
				break
			}

			time.Sleep(delay)
			delay = nextDelay(delay)
		}
	}
}

// nextDelay doubles the redial delay up to the cap.
func nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > maxRedialDelay {
		return maxRedialDelay
	}
	return d
}
