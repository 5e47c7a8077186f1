package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher hands events to a Publisher from a single background goroutine.
// Notify never blocks: when the buffer is full the event is dropped and logged.
type Dispatcher struct {
	events    chan Event
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewDispatcher creates a Dispatcher with the given buffer size.
func NewDispatcher(publisher Publisher, bufferSize int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		events:    make(chan Event, bufferSize),
		publisher: publisher,
		logger:    logger,
		timeout:   5 * time.Second,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Make sure we conform to the interface
var _ Notifier = (*Dispatcher)(nil)

// Start launches the background publisher.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				d.logger.Info("draining notifications before shutdown", "remaining_events", len(d.events))
				for len(d.events) > 0 {
					d.publish(context.Background(), <-d.events)
				}
				return
			case event := <-d.events:
				d.publish(d.ctx, event)
			}
		}
	}()
}

func (d *Dispatcher) publish(ctx context.Context, event Event) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Error("failed to publish notification", "error", err, "event_type", event.Type, "expense_id", event.ExpenseID)
	}
}

// Notify enqueues an event without waiting.
func (d *Dispatcher) Notify(event Event) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("notification buffer full, dropping event", "event_type", event.Type, "expense_id", event.ExpenseID)
	}
}

// Shutdown stops the worker after publishing whatever is still buffered.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}
