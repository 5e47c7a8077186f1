package notify

// NoOpNotifier drops every event.
type NoOpNotifier struct{}

// Notify does nothing.
func (NoOpNotifier) Notify(Event) {}
