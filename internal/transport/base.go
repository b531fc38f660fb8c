package transport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// stopWait bounds how long Stop blocks on a wedged receive loop
	stopWait = 3 * time.Second
	// finalEmitWait bounds the delivery of a terminal status when the
	// consumer has already gone away
	finalEmitWait = time.Second
)

// base carries the per-session plumbing shared by all transports: the
// session identity, the outbound event channel and stop bookkeeping.
type base struct {
	session  uuid.UUID
	events   chan<- Event
	stopped  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newBase(events chan<- Event) base {
	return base{
		session: uuid.New(),
		events:  events,
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (b *base) Session() uuid.UUID {
	return b.session
}

// Stop requests the receive loop to exit and waits, bounded, for it
func (b *base) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopped)
	})

	select {
	case <-b.done:
	case <-time.After(stopWait):
	}
}

// sessionContext derives the loop context, cancelled either by the parent
// or by Stop
func (b *base) sessionContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-b.stopped:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// emit delivers ev unless the session is being torn down
func (b *base) emit(ctx context.Context, ev Event) {
	select {
	case b.events <- ev:
	case <-ctx.Done():
	}
}

// emitFinal delivers a terminal status even when the session context is
// already cancelled
func (b *base) emitFinal(ev Event) {
	select {
	case b.events <- ev:
	case <-time.After(finalEmitWait):
	}
}
