package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "recrusearch/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them, keeping the
// request path free of sink latency. A full inbox drops the event rather than
// blocking a transition; the core never depends on the sink.
type Worker struct {
	store  audit.Store
	inbox  chan audit.Event
	logger *slog.Logger
}

func New(store audit.Store, buffer int, logger *slog.Logger) *Worker {
	return &Worker{
		store:  store,
		inbox:  make(chan audit.Event, buffer),
		logger: logger,
	}
}

// Emit stamps the event and hands it to the worker. It never fails: audit is
// best-effort by contract and services treat a lost event as a warning.
func (w *Worker) Emit(_ context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	w.Enqueue(event)
	return nil
}

// Enqueue offers an event to the worker without blocking.
func (w *Worker) Enqueue(event audit.Event) {
	select {
	case w.inbox <- event:
	default:
		w.logger.Warn("audit inbox full, dropping event", "action", event.Action)
	}
}

// Run drains the inbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to append audit event",
					"action", event.Action,
					"error", err.Error(),
				)
			}
		}
	}
}
