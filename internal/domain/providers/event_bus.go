package providers

import (
	"context"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// process stage events. Publishing is best-effort from the pipeline's
// point of view.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ProcessEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ProcessEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// Event channel constants.
const (
	// EventChannelProcessUpdates is the channel for all process updates
	EventChannelProcessUpdates = "process:updates"

	// EventChannelProcessPrefix is the prefix for process-specific channels
	EventChannelProcessPrefix = "process:"
)

// GetProcessChannel returns the channel name for a specific process
func GetProcessChannel(processID string) string {
	return EventChannelProcessPrefix + processID
}
