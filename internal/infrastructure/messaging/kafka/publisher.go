// internal/infrastructure/messaging/kafka/publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/order"
)

// EventOrderPlaced is the event_type header of order events
const EventOrderPlaced = "order.placed"

// Producer is the part of kafka.Writer the publisher needs
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPlacedEvent is the payload published for a new order
type OrderPlacedEvent struct {
	OrderNumber string            `json:"order_number"`
	ClientID    string            `json:"client_id"`
	Items       []OrderPlacedLine `json:"items"`
	Subtotal    string            `json:"subtotal"`
	Tax         string            `json:"tax"`
	DeliveryFee string            `json:"delivery_fee"`
	Total       string            `json:"total"`
	Currency    string            `json:"currency"`
	City        string            `json:"city"`
	ZipCode     string            `json:"zip_code"`
	PaymentID   string            `json:"payment_id,omitempty"`
	PlacedAt    time.Time         `json:"placed_at"`
}

// OrderPlacedLine is one item of an order event
type OrderPlacedLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// Publisher writes order events to Kafka
type Publisher struct {
	producer Producer
	topic    string
	logger   *logrus.Logger
}

// NewWriter builds a kafka.Writer for the configured brokers
func NewWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}
}

// NewPublisher creates an order event publisher
func NewPublisher(producer Producer, topic string, logger *logrus.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

// PublishOrderPlaced announces a new order, keyed by its number
func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	event := OrderPlacedEvent{
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		Subtotal:    o.Subtotal.StringFixed(2),
		Tax:         o.Tax.StringFixed(2),
		DeliveryFee: o.DeliveryFee.StringFixed(2),
		Total:       o.Total.StringFixed(2),
		Currency:    o.Currency,
		City:        o.DeliveryInfo.City,
		ZipCode:     o.DeliveryInfo.ZipCode,
		PaymentID:   o.PaymentID,
		PlacedAt:    o.Timestamp,
	}
	for _, item := range o.Items {
		event.Items = append(event.Items, OrderPlacedLine{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(o.OrderNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"topic":        p.topic,
	}).Debug("order event published")
	return nil
}

// Close flushes and closes the producer
func (p *Publisher) Close() error {
	return p.producer.Close()
}
