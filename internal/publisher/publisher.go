package publisher

import (
	"sync"

	"github.com/hypebeast/go-osc/osc"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
	"github.com/PetLucy/LunaHR-Linux/internal/logger"
	"github.com/PetLucy/LunaHR-Linux/internal/metrics"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

// OSC addresses expected by the avatar parameter receiver
const (
	AddrOnes      = "/avatar/parameters/hr/ones_hr"
	AddrTens      = "/avatar/parameters/hr/tens_hr"
	AddrHundreds  = "/avatar/parameters/hr/hundreds_hr"
	AddrHeartRate = "/avatar/parameters/hr/heart_rate"
)

type sink struct {
	target Target
	client Sender
}

// Publisher fans accepted samples out to every configured OSC sink. A
// single drain goroutine preserves arrival order; enqueueing never blocks
// the caller.
type Publisher struct {
	mu     sync.RWMutex
	closed bool

	sinks []sink
	queue chan telemetry.Sample
	done  chan struct{}
	stats metrics.Collector
}

func New(cfg Config, stats metrics.Collector) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.New().Wrap(ErrInvalidConfig, err)
	}

	sinks := make([]sink, 0, len(cfg.Ports))
	for _, port := range cfg.Ports {
		target := Target{Host: cfg.Host, Port: port}
		sinks = append(sinks, sink{target: target, client: osc.NewClient(cfg.Host, port)})
	}

	return newWithSinks(sinks, stats, cfg.queueSize()), nil
}

func newWithSinks(sinks []sink, stats metrics.Collector, queueSize int) *Publisher {
	return &Publisher{
		sinks: sinks,
		queue: make(chan telemetry.Sample, queueSize),
		done:  make(chan struct{}),
		stats: stats,
	}
}

// Start launches the drain goroutine
func (p *Publisher) Start() {
	go p.drain()
}

// Publish enqueues a sample for fan-out. When the queue is full the sample
// is dropped and counted rather than stalling the pipeline.
func (p *Publisher) Publish(s telemetry.Sample) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return
	}

	select {
	case p.queue <- s:
	default:
		p.stats.PublishDropped()
		logger.Warn().Int("bpm", s.BPM).Msg("Publish queue full, dropping sample")
	}
}

// Close flushes the queue and stops the drain goroutine
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.queue)
	<-p.done
}

func (p *Publisher) drain() {
	defer close(p.done)

	for s := range p.queue {
		p.send(s)
	}
}

// send delivers one sample to every sink. A failing sink is logged and
// skipped so the remaining sinks still receive the sample.
func (p *Publisher) send(s telemetry.Sample) {
	ones, tens, hundreds := digits(s.BPM)

	for i := range p.sinks {
		if err := sendTo(p.sinks[i].client, ones, tens, hundreds, s.BPM); err != nil {
			p.stats.PublishFault()
			logger.Warn().
				Str("sink", p.sinks[i].target.String()).
				Err(err).
				Msg("OSC send failed")
		}
	}

	p.stats.SamplePublished()
}

func sendTo(client Sender, ones, tens, hundreds, bpm int) error {
	parts := []struct {
		addr  string
		value int
	}{
		{AddrOnes, ones},
		{AddrTens, tens},
		{AddrHundreds, hundreds},
		{AddrHeartRate, bpm},
	}

	for _, part := range parts {
		msg := osc.NewMessage(part.addr)
		msg.Append(int32(part.value))
		if err := client.Send(msg); err != nil {
			return errors.New().Wrap(ErrSendFailed, err)
		}
	}

	return nil
}

// digits decomposes a heart rate into its decimal digits
func digits(bpm int) (ones, tens, hundreds int) {
	return bpm % 10, bpm / 10 % 10, bpm / 100 % 10
}
