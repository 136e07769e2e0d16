package worker

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "recrusearch/pkg/platform/audit"
	auditmemory "recrusearch/pkg/platform/audit/store/memory"
)

func TestWorkerDrainsInbox(t *testing.T) {
	store := auditmemory.New()
	w := New(store, 8, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	require.NoError(t, w.Emit(ctx, audit.Event{Action: audit.ActionStudyJoined, Actor: "p1"}))
	require.NoError(t, w.Emit(ctx, audit.Event{Action: audit.ActionStudyCompleted, Actor: "p1"}))

	assert.Eventually(t, func() bool {
		events, err := store.ListByActor(ctx, "p1")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestEmitStampsEvents(t *testing.T) {
	store := auditmemory.New()
	w := New(store, 1, slog.Default())

	require.NoError(t, w.Emit(context.Background(), audit.Event{Action: audit.ActionConsentIssued, Actor: "p1"}))

	// Drain synchronously to inspect the stamped event.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)

	events, err := store.ListByActor(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestFullInboxDropsInsteadOfBlocking(t *testing.T) {
	store := auditmemory.New()
	w := New(store, 1, slog.Default())

	// No running consumer; the second event must be dropped, not block.
	w.Enqueue(audit.Event{Action: audit.ActionStudyJoined, Actor: "p1"})
	w.Enqueue(audit.Event{Action: audit.ActionStudyJoined, Actor: "p1"})
}
