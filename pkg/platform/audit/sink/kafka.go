// Package sink ships audit events to Kafka.
package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "veritas/pkg/platform/audit"
)

// Kafka publishes audit events to a single topic, keyed by company so events
// for one company stay ordered within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka creates a Kafka sink. Brokers must be non-empty.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka sink requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka sink requires a topic")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Kafka{client: client, topic: topic}, nil
}

// Publish produces one event synchronously. The outbox worker relies on the
// returned error to decide whether to mark the row published.
func (k *Kafka) Publish(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.CompanyID),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// PublishRaw produces a pre-serialized payload (outbox rows).
func (k *Kafka) PublishRaw(ctx context.Context, key string, payload []byte) error {
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(key),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit payload: %w", err)
	}
	return nil
}

func (k *Kafka) Close() {
	k.client.Close()
}
