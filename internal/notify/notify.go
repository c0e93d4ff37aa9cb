package notify

import (
	"context"
	"sync"

	"github.com/goliatone/go-publisher/internal/logging"
	"github.com/goliatone/go-publisher/pkg/interfaces"
)

// NewNoOp returns a dispatcher that silently drops every event. Used when
// notifications are disabled by configuration.
func NewNoOp() interfaces.Notifier {
	return interfaces.NotifierFunc(func(context.Context, interfaces.NotificationEvent) error {
		return nil
	})
}

// NewLogNotifier returns a dispatcher that records events through the
// configured logger. It is the default delivery channel when no external
// notifier is wired.
func NewLogNotifier(logger interfaces.Logger) interfaces.Notifier {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &logNotifier{logger: logger}
}

type logNotifier struct {
	logger interfaces.Logger
}

func (n *logNotifier) Notify(ctx context.Context, event interfaces.NotificationEvent) error {
	logger := n.logger.WithContext(ctx)
	logger = logging.WithFields(logger, map[string]any{
		"label":      event.Label,
		"subject":    event.Subject,
		"content_id": event.ContentID,
	})
	logger.Info("notification.dispatched")
	return nil
}

// Recorder captures dispatched events in memory. Intended for tests and
// scaffolding, mirroring the in-memory repository implementations.
type Recorder struct {
	mu     sync.Mutex
	events []interfaces.NotificationEvent
	err    error
}

// NewRecorder constructs an empty in-memory dispatcher.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Fail makes every subsequent Notify call return the supplied error.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Notify records the event, returning the configured failure when set.
func (r *Recorder) Notify(_ context.Context, event interfaces.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []interfaces.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]interfaces.NotificationEvent, len(r.events))
	copy(out, r.events)
	return out
}
