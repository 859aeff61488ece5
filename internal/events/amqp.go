package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxReconnectAttempts = 10

// AMQPPublisher publishes events as persistent JSON messages to a durable queue.
// A dropped connection is re-established in the background with backoff.
type AMQPPublisher struct {
	url   string
	queue string

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// NewAMQPPublisher connects to the broker and declares the queue
func NewAMQPPublisher(brokerURL, queue string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: brokerURL, queue: queue}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", p.queue, err)
	}

	p.conn = conn
	p.channel = channel
	go p.handleReconnect(conn.NotifyClose(make(chan *amqp.Error, 1)))

	log.Printf("Connected to RabbitMQ at %s, publishing to %s", redactURL(p.url), p.queue)
	return nil
}

func (p *AMQPPublisher) handleReconnect(notifyClose <-chan *amqp.Error) {
	closeErr, ok := <-notifyClose
	if !ok || closeErr == nil {
		return
	}

	for attempt := 0; attempt < maxReconnectAttempts; attempt++ {
		p.mu.RLock()
		closed := p.closed
		p.mu.RUnlock()
		if closed {
			return
		}

		log.Printf("RabbitMQ connection lost (%v), reconnect attempt %d", closeErr, attempt+1)
		time.Sleep(min(time.Duration(1<<attempt)*time.Second, 30*time.Second))

		if err := p.connect(); err != nil {
			log.Printf("RabbitMQ reconnect failed: %v", err)
			continue
		}
		return
	}

	log.Printf("Giving up on RabbitMQ after %d attempts", maxReconnectAttempts)
}

// Publish sends the event to the queue
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.RLock()
	channel := p.channel
	p.mu.RUnlock()

	err = channel.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// redactURL hides credentials in a broker URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "amqp://"
	}
	return u.Redacted()
}
