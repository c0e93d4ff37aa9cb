package interfaces

import (
	"context"
	"time"
)

// NotificationEvent describes a completed workflow action worth announcing.
type NotificationEvent struct {
	// Label is a short human readable event description (e.g. "Content published").
	Label string
	// Subject carries the title of the affected content entity.
	Subject string
	// ContentID identifies the affected entity.
	ContentID string
	// OccurredAt stamps when the action completed.
	OccurredAt time.Time
	// Metadata carries optional contextual attributes.
	Metadata map[string]any
}

// Notifier delivers workflow notifications. Delivery is best-effort from the
// workflow's perspective; callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent) error
}

// NotifierFunc adapts a plain function into a Notifier.
type NotifierFunc func(ctx context.Context, event NotificationEvent) error

// Notify satisfies Notifier.
func (fn NotifierFunc) Notify(ctx context.Context, event NotificationEvent) error {
	return fn(ctx, event)
}
