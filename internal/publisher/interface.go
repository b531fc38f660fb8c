package publisher

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"
)

// Sender abstracts the OSC client of a single sink
type Sender interface {
	Send(packet osc.Packet) error
}

// Target is one OSC sink address
type Target struct {
	Host string
	Port int
}

// String implements the Stringer interface
func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}
