//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "recrusearch/pkg/platform/audit"
	"recrusearch/pkg/platform/audit/publisher"
	"recrusearch/pkg/testutil/containers"
)

func TestKafkaPublisherIntegration(t *testing.T) {
	ctx := context.Background()
	rp := containers.NewRedpandaContainer(t)
	t.Cleanup(func() { _ = rp.Container.Terminate(ctx) })

	const topic = "audit-events-test"

	sink, err := publisher.NewKafka(rp.Brokers, topic)
	require.NoError(t, err)
	t.Cleanup(sink.Close)

	require.NoError(t, sink.EnsureTopic(ctx, 1))
	// Recreating an existing topic must not fail.
	require.NoError(t, sink.EnsureTopic(ctx, 1))

	published := audit.Event{
		ID:        "11111111-1111-1111-1111-111111111111",
		Action:    audit.ActionStudyCompleted,
		Actor:     "r1",
		Subject:   "enrollment/r1:p1",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, sink.Append(ctx, published))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "r1", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, published.ID, got.ID)
	assert.Equal(t, published.Action, got.Action)
	assert.Equal(t, published.Subject, got.Subject)

	t.Run("listing is unsupported on the kafka sink", func(t *testing.T) {
		_, err := sink.ListByActor(ctx, "r1")
		assert.Error(t, err)
	})
}
