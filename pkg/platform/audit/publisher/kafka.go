// Package publisher publishes audit events to Kafka. Deployments that want a
// queryable trail pair it with the postgres outbox store; Kafka is then the
// downstream source of truth for compliance consumers.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "recrusearch/pkg/platform/audit"
)

// Kafka implements audit.Store as a write-only sink. Events are keyed by
// actor so per-authority ordering is preserved within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

// EnsureTopic creates the audit topic when missing.
func (k *Kafka) EnsureTopic(ctx context.Context, partitions int32) error {
	adm := kadm.NewClient(k.client)
	resps, err := adm.CreateTopics(ctx, partitions, 1, nil, k.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", k.topic, err)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", k.topic, resp.Err)
		}
	}
	return nil
}

func (k *Kafka) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.Actor),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// ListByActor is unsupported: Kafka is a write-only sink here. Queries go to
// the outbox store or a downstream consumer.
func (k *Kafka) ListByActor(context.Context, string) ([]audit.Event, error) {
	return nil, errors.New("audit: kafka sink does not support listing")
}

func (k *Kafka) Close() {
	k.client.Close()
}
