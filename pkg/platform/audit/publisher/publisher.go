// Package publisher buffers audit events between domain logic and the store.
// Emit never blocks domain code for longer than a channel send; Close drains
// the buffer so no event is lost on shutdown.
package publisher

import (
	"context"
	"sync"
	"time"

	audit "veritas/pkg/platform/audit"
)

// Publisher writes audit events to a store, synchronously by default or
// through a buffered channel when async mode is enabled.
type Publisher struct {
	store audit.Store

	inbox   chan audit.Event
	done    chan struct{}
	closing sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous publishing with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan audit.Event, size)
		}
	}
}

// NewPublisher creates a publisher backed by the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit records an audit event. Timestamps are stamped here so emitters don't
// have to. In async mode a full buffer falls back to a synchronous write
// rather than dropping the event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		return p.store.Append(ctx, event)
	}
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		// Background context: the emitting request may be long gone.
		_ = p.store.Append(context.Background(), event)
	}
}

// Close drains any buffered events and stops the background goroutine.
func (p *Publisher) Close() {
	p.closing.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}
