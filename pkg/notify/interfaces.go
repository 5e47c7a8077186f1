package notify

import (
	"context"
)

// Publisher defines the interface for handing a notification to the outbound channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Notifier accepts events after a commit. Implementations must not block.
type Notifier interface {
	Notify(event Event)
}
