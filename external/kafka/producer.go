package kafka

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// TopicPaymentSettled carries one event per settled payment, keyed by order
// id, for downstream consumers (analytics, receipts).
const TopicPaymentSettled = "payment.settled"

// Producer publishes settlement events. When KAFKA_BROKERS is empty the
// producer is disabled and every publish is a logged no-op, so the service
// runs without a broker in development.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer() *Producer {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		log.Println("kafka disabled (KAFKA_BROKERS is empty)")
		return &Producer{}
	}

	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		log.Println("kafka disabled (no valid brokers)")
		return &Producer{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish marshals the event and writes it keyed by orderID. Errors are
// returned, not fatal; callers log and move on.
func (p *Producer) Publish(ctx context.Context, topic, orderID string, event any) error {
	if p.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(orderID),
		Value: value,
	})
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
