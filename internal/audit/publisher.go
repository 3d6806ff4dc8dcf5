package audit

import (
	"context"
	"log/slog"
)

// Sink receives events fanned out by the Publisher.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// Publisher decouples event emission from delivery: Emit enqueues without
// blocking the request path, and a worker goroutine drains the queue into
// every attached sink. A full queue drops the event rather than stalling a
// request; audit here is observability, not a ledger.
type Publisher struct {
	queue  chan Event
	sinks  []Sink
	logger *slog.Logger
}

// NewPublisher creates a publisher with the given queue depth.
func NewPublisher(depth int, logger *slog.Logger, sinks ...Sink) *Publisher {
	if depth <= 0 {
		depth = 256
	}
	return &Publisher{
		queue:  make(chan Event, depth),
		sinks:  sinks,
		logger: logger,
	}
}

// Emit enqueues an event. It never blocks; an overflowing queue is logged
// and the event dropped.
func (p *Publisher) Emit(_ context.Context, e Event) error {
	select {
	case p.queue <- e:
	default:
		p.logger.Warn("audit queue full, dropping event", "action", e.Action)
	}
	return nil
}

// Run drains the queue into every sink until ctx is done, then flushes
// whatever is still buffered. Run it under the server's errgroup.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return nil
		case e := <-p.queue:
			p.deliver(ctx, e)
		}
	}
}

func (p *Publisher) drain() {
	for {
		select {
		case e := <-p.queue:
			p.deliver(context.Background(), e)
		default:
			return
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, e Event) {
	for _, sink := range p.sinks {
		if err := sink.Emit(ctx, e); err != nil {
			p.logger.Warn("audit sink failed",
				"action", e.Action,
				"error", err,
			)
		}
	}
}
