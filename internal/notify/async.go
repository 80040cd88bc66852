package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AsyncDispatcherConfig holds configuration for the async dispatcher.
type AsyncDispatcherConfig struct {
	// WorkerCount is the number of delivery goroutines. Defaults to 1.
	WorkerCount int

	// QueueSize bounds the number of undelivered messages. Defaults to 100.
	QueueSize int

	// DeliveryTimeout bounds a single Deliver call. Defaults to 30s.
	DeliveryTimeout time.Duration
}

// DefaultAsyncDispatcherConfig returns an AsyncDispatcherConfig with
// reasonable defaults.
func DefaultAsyncDispatcherConfig() AsyncDispatcherConfig {
	return AsyncDispatcherConfig{
		WorkerCount:     2,
		QueueSize:       100,
		DeliveryTimeout: 30 * time.Second,
	}
}

// AsyncDispatcher renders notifications on the caller's goroutine and hands
// them to a pool of workers for delivery. Send never waits for delivery.
type AsyncDispatcher struct {
	renderer *Renderer
	sender   Sender
	config   AsyncDispatcherConfig
	logger   *slog.Logger

	queue chan Message
	wg    sync.WaitGroup

	// mu guards stopped and sends on queue against close.
	mu      sync.RWMutex
	stopped bool
	started bool

	// errHandler is called when a delivery fails.
	errHandler func(msg Message, err error)
}

var _ Dispatcher = (*AsyncDispatcher)(nil)

// NewAsyncDispatcher creates a dispatcher. Start must be called before
// queued messages are delivered.
func NewAsyncDispatcher(
	renderer *Renderer,
	sender Sender,
	config AsyncDispatcherConfig,
	logger *slog.Logger,
) *AsyncDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "notify_dispatcher")

	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = 30 * time.Second
	}

	return &AsyncDispatcher{
		renderer: renderer,
		sender:   sender,
		config:   config,
		logger:   logger,
		queue:    make(chan Message, config.QueueSize),
		errHandler: func(msg Message, err error) {
			logger.Error("notification delivery failed",
				"kind", msg.Kind,
				"error", err)
		},
	}
}

// SetErrorHandler replaces the delivery failure handler. It must be called
// before Start.
func (d *AsyncDispatcher) SetErrorHandler(handler func(msg Message, err error)) {
	d.errHandler = handler
}

// Send implements Dispatcher. It fails with ErrUnknownKind for an unknown
// kind, ErrQueueFull when the queue is at capacity and ErrDispatcherStopped
// after Stop.
func (d *AsyncDispatcher) Send(ctx context.Context, to string, kind Kind, payload Payload) error {
	msg, err := d.renderer.Render(to, kind, payload)
	if err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- msg:
		d.logger.Debug("notification enqueued",
			"kind", kind,
			"queue_len", len(d.queue),
			"queue_cap", cap(d.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// Start launches the delivery workers. Calling it twice has no effect.
func (d *AsyncDispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("notification dispatcher started", "worker_count", d.config.WorkerCount)
}

// Stop refuses new messages, delivers what is already queued and waits for
// the workers to exit, or for ctx to end.
func (d *AsyncDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification dispatcher did not drain: %w", ctx.Err())
	}
}

func (d *AsyncDispatcher) worker(id int) {
	defer d.wg.Done()
	d.logger.Debug("starting worker", "worker_id", id)

	for msg := range d.queue {
		d.deliver(msg)
	}

	d.logger.Debug("queue closed, stopping worker", "worker_id", id)
}

func (d *AsyncDispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
	defer cancel()

	if err := d.sender.Deliver(ctx, msg); err != nil {
		d.errHandler(msg, err)
		return
	}
	d.logger.Debug("notification delivered", "kind", msg.Kind)
}
