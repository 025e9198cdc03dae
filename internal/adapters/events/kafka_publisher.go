// Package events publishes rate refresh notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/core/ports/external"
	"github.com/segmentio/kafka-go"
)

// RatesRefreshedEvent is the message written for each refreshed base currency.
type RatesRefreshedEvent struct {
	Type             string    `json:"type"`
	BaseCurrencyCode string    `json:"base_currency"`
	RatesStored      int       `json:"rates_stored"`
	Source           string    `json:"source"`
	DateEffective    string    `json:"date_effective"`
	Timestamp        time.Time `json:"timestamp"`
}

const eventTypeRatesRefreshed = "exchange_rates.refreshed"

// NewRatesRefreshedEvent builds the message body for result.
func NewRatesRefreshedEvent(result domain.RefreshResult, now time.Time) RatesRefreshedEvent {
	return RatesRefreshedEvent{
		Type:             eventTypeRatesRefreshed,
		BaseCurrencyCode: result.BaseCurrencyCode,
		RatesStored:      result.RatesStored,
		Source:           result.Source,
		DateEffective:    result.DateEffective.Format("2006-01-02"),
		Timestamp:        now.UTC(),
	}
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes RatesRefreshedEvent messages keyed by base currency.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	slog.Info("Kafka publisher initialized", slog.String("topic", topic))
	return newKafkaPublisher(writer, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, now: time.Now}
}

var _ external.RateEventPublisher = (*KafkaPublisher)(nil)

// PublishRatesRefreshed writes one message for result. Messages for the same
// base currency share a key and therefore a partition.
func (p *KafkaPublisher) PublishRatesRefreshed(ctx context.Context, result domain.RefreshResult) error {
	payload, err := json.Marshal(NewRatesRefreshedEvent(result, p.now()))
	if err != nil {
		return fmt.Errorf("failed to marshal rates refreshed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(result.BaseCurrencyCode),
		Value: payload,
		Time:  p.now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish rates refreshed event to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	slog.Info("Closing Kafka publisher", slog.String("topic", p.topic))
	return p.writer.Close()
}

// Noop discards every event.
type Noop struct{}

var _ external.RateEventPublisher = Noop{}

func (Noop) PublishRatesRefreshed(context.Context, domain.RefreshResult) error { return nil }
