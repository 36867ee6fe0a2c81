package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/curiomuse/artefact-catalog/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tableCarrier adapts amqp.Table to TextMapCarrier for OpenTelemetry propagation
type tableCarrier struct {
	table amqp.Table
}

func (c tableCarrier) Get(key string) string {
	if val, ok := c.table[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
		return fmt.Sprintf("%v", val)
	}
	return ""
}

func (c tableCarrier) Set(key, value string) {
	c.table[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c.table))
	for k := range c.table {
		keys = append(keys, k)
	}
	return keys
}

// DialFunc is a function type for establishing RabbitMQ connections
type DialFunc func() (*amqp.Connection, error)

// Publisher emits artefact lifecycle events on a topic exchange. Publishing is
// fire-and-forget from the caller's perspective; a failed publish never fails
// the originating request.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	log      *zap.Logger
	appName  string
	exchange string
	dialFn   DialFunc
	mu       sync.RWMutex
	closed   bool
}

// ArtefactEvent is the payload published for artefact.created/updated/deleted.
type ArtefactEvent struct {
	Action     string `json:"action"`
	ArtefactID string `json:"artefact_id"`
	At         string `json:"at"`
}

func NewPublisher(conn *amqp.Connection, log *zap.Logger, appName string, cfg config.QueueConfig, dialFn DialFunc) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}

	p := &Publisher{
		conn:     conn,
		ch:       ch,
		log:      log,
		appName:  appName,
		exchange: cfg.Exchange,
		dialFn:   dialFn,
	}

	// Start connection watcher for auto-reconnection
	go p.watchConnection()

	return p, nil
}

// watchConnection monitors the connection and triggers reconnection when closed
func (p *Publisher) watchConnection() {
	for {
		p.mu.RLock()
		if p.closed {
			p.mu.RUnlock()
			return
		}
		conn := p.conn
		p.mu.RUnlock()

		if conn == nil {
			time.Sleep(time.Second)
			continue
		}

		// Wait for connection close notification
		notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))
		amqpErr := <-notifyClose

		p.mu.RLock()
		if p.closed {
			p.mu.RUnlock()
			return
		}
		p.mu.RUnlock()

		if amqpErr != nil {
			p.log.Warn("RabbitMQ connection closed", zap.Error(amqpErr))
		} else {
			p.log.Warn("RabbitMQ connection closed gracefully")
		}

		// Attempt to reconnect
		p.reconnect()
	}
}

// reconnect attempts to re-establish the RabbitMQ connection with exponential backoff
func (p *Publisher) reconnect() {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		p.mu.RLock()
		if p.closed {
			p.mu.RUnlock()
			return
		}
		p.mu.RUnlock()

		p.log.Info("Attempting to reconnect to RabbitMQ", zap.Duration("backoff", backoff))

		conn, err := p.dialFn()
		if err != nil {
			p.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
			time.Sleep(backoff)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		ch, err := conn.Channel()
		if err != nil {
			p.log.Error("Failed to create channel after reconnect", zap.Error(err))
			conn.Close()
			time.Sleep(backoff)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
			p.log.Error("Failed to redeclare exchange after reconnect", zap.Error(err))
			ch.Close()
			conn.Close()
			time.Sleep(backoff)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		p.mu.Lock()
		p.conn = conn
		p.ch = ch
		p.mu.Unlock()

		p.log.Info("Successfully reconnected to RabbitMQ")
		return
	}
}

// getChannel safely returns the current channel
func (p *Publisher) getChannel() (*amqp.Channel, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, errors.New("publisher is closed")
	}
	if p.ch == nil {
		return nil, errors.New("channel is not available")
	}
	return p.ch, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	return err
}

// PublishArtefact emits one lifecycle event, routing key "artefact.<action>".
func (p *Publisher) PublishArtefact(ctx context.Context, action, artefactID string) error {
	event := ArtefactEvent{
		Action:     action,
		ArtefactID: artefactID,
		At:         time.Now().UTC().Format(time.RFC3339),
	}
	return p.publishJSON(ctx, "artefact."+action, event)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	// Create a span for the publish operation
	tracer := otel.Tracer(p.appName)
	ctx, span := tracer.Start(ctx, "rabbitmq.publish",
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.exchange),
			attribute.String("messaging.destination_kind", "exchange"),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		))
	defer span.End()

	// Inject trace context into message headers
	headers := make(amqp.Table)
	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, tableCarrier{table: headers})

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
		Headers:      headers,
	}

	// Get channel safely
	ch, err := p.getChannel()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, publishing)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("messaging.message.body.size", len(b)))
	return nil
}
