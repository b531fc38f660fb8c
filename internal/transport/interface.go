package transport

import (
	"context"

	"github.com/google/uuid"
)

// StatusKind enumerates the lifecycle states a transport session reports
type StatusKind int

const (
	StatusSearching StatusKind = iota
	StatusConnecting
	StatusConnected
	StatusError
	StatusCancelled
)

// Status is one lifecycle report from a transport session
type Status struct {
	Kind StatusKind
	// Device names what is being connected to, for StatusConnecting
	Device string
	// Err carries the fault detail, for StatusError
	Err error
}

func Searching() Status {
	return Status{Kind: StatusSearching}
}

func ConnectingTo(device string) Status {
	return Status{Kind: StatusConnecting, Device: device}
}

func Connected() Status {
	return Status{Kind: StatusConnected}
}

func Failed(err error) Status {
	return Status{Kind: StatusError, Err: err}
}

func Cancelled() Status {
	return Status{Kind: StatusCancelled}
}

// String renders the status as a human-readable line
func (s Status) String() string {
	switch s.Kind {
	case StatusSearching:
		return "searching"
	case StatusConnecting:
		if s.Device != "" {
			return "connecting to " + s.Device
		}
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		if s.Err != nil {
			return "connection error: " + s.Err.Error()
		}
		return "connection error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Event is anything a transport session emits. Every event carries the
// session it belongs to so consumers can discard stale ones.
type Event interface {
	Session() uuid.UUID
}

// SampleEvent carries one decoded heart rate reading
type SampleEvent struct {
	SessionID uuid.UUID
	BPM       int
}

func (e SampleEvent) Session() uuid.UUID {
	return e.SessionID
}

// StatusEvent carries a session lifecycle report
type StatusEvent struct {
	SessionID uuid.UUID
	Status    Status
}

func (e StatusEvent) Session() uuid.UUID {
	return e.SessionID
}

// IdentityEvent reports the address of the connected device, once known
type IdentityEvent struct {
	SessionID uuid.UUID
	Address   string
}

func (e IdentityEvent) Session() uuid.UUID {
	return e.SessionID
}

// Transport is one live heart rate session. Start launches the receive
// loop on its own goroutine; all outcomes, including failures to start,
// are reported as events. Implementations are single-use: a new session
// means a new Transport.
type Transport interface {
	Start(ctx context.Context)
	// Stop requests the receive loop to exit and waits, bounded, for it.
	// No sample events are emitted after Stop returns. Stop is idempotent.
	Stop()
	Session() uuid.UUID
}

// Factory builds a fresh transport session wired to the given event channel
type Factory func(events chan<- Event) Transport
