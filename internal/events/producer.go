package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/orders-api/internal/order"
)

const (
	DefaultTopic = "order-events"

	EventTypeOrderResolved = "order.resolved"
)

// OrderEvent is the JSON value published for a resolved checkout.
type OrderEvent struct {
	Type       string       `json:"type"`
	OrderID    string       `json:"order_id"`
	Email      string       `json:"email"`
	Status     order.Status `json:"status"`
	Amount     float64      `json:"amount"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Producer publishes order events to Kafka, keyed by order id.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *log.Entry
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newProducer(producer, topic), nil
}

func newProducer(p sarama.SyncProducer, topic string) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Producer{
		producer: p,
		topic:    topic,
		logger:   log.WithField("component", "kafka-producer"),
	}
}

var _ order.Notifier = (*Producer)(nil)

// OrderResolved publishes an order.resolved event for o.
func (p *Producer) OrderResolved(_ context.Context, o order.Order) error {
	data, err := json.Marshal(OrderEvent{
		Type:       EventTypeOrderResolved,
		OrderID:    o.ID,
		Email:      o.Email,
		Status:     o.Status,
		Amount:     o.Amount,
		OccurredAt: o.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(o.ID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     p.topic,
		"order_id":  o.ID,
		"partition": partition,
		"offset":    offset,
	}).Debug("order event sent")
	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
