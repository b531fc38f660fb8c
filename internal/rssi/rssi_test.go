package rssi

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type advert struct {
	address string
	rssi    int
}

type fakeScanner struct {
	mu      sync.Mutex
	adverts []advert
	scans   int
	stop    chan struct{}
}

func newFakeScanner(adverts ...advert) *fakeScanner {
	f := &fakeScanner{adverts: adverts, stop: make(chan struct{})}
	close(f.stop)
	return f
}

func (f *fakeScanner) Scan(onResult func(string, int)) error {
	f.mu.Lock()
	f.scans++
	f.stop = make(chan struct{})
	adverts := f.adverts
	stop := f.stop
	f.mu.Unlock()

	for _, a := range adverts {
		select {
		case <-stop:
			return nil
		default:
		}
		onResult(a.address, a.rssi)
	}

	// Like the real adapter, block until StopScan
	<-stop
	return nil
}

func (f *fakeScanner) StopScan() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	select {
	case <-f.stop:
	default:
		close(f.stop)
	}
	return nil
}

func (f *fakeScanner) scanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scans
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var probeStart = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func TestProbeRecordsReading(t *testing.T) {
	scanner := newFakeScanner(
		advert{address: "AA:BB:CC:DD:EE:00", rssi: -90},
		advert{address: "AA:BB:CC:DD:EE:FF", rssi: -62},
	)
	clock := &fakeClock{now: probeStart}
	s := New(Config{ProbeTimeout: 100 * time.Millisecond}, scanner, clock)

	_, ok := s.Current()
	assert.False(t, ok, "no reading before the first probe")

	s.Request("AA:BB:CC:DD:EE:FF")

	require.Eventually(t, func() bool {
		_, ok := s.Current()
		return ok
	}, 2*time.Second, 5*time.Millisecond, "probe should record a reading")

	reading, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, -62, reading.RSSI, "reading should come from the matching device")
	assert.Equal(t, probeStart, reading.SampledAt)
}

func TestProbeRateLimited(t *testing.T) {
	scanner := newFakeScanner(advert{address: "AA:BB:CC:DD:EE:FF", rssi: -70})
	clock := &fakeClock{now: probeStart}
	s := New(Config{MinInterval: time.Minute, ProbeTimeout: 100 * time.Millisecond}, scanner, clock)

	s.Request("AA:BB:CC:DD:EE:FF")
	require.Eventually(t, func() bool {
		_, ok := s.Current()
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	clock.advance(30 * time.Second)
	s.Request("AA:BB:CC:DD:EE:FF")
	assert.Equal(t, 1, scanner.scanCount(), "probe 30s after the last one must be skipped")

	clock.advance(30 * time.Second)
	require.Eventually(t, func() bool {
		s.Request("AA:BB:CC:DD:EE:FF")
		return scanner.scanCount() == 2
	}, 2*time.Second, 5*time.Millisecond, "probe should run again once the interval elapsed")
}

func TestSingleProbeInFlight(t *testing.T) {
	// No adverts: the scan blocks until its timeout stops it
	scanner := newFakeScanner()
	clock := &fakeClock{now: probeStart}
	s := New(Config{MinInterval: 0, ProbeTimeout: 150 * time.Millisecond}, scanner, clock)

	s.Request("AA:BB:CC:DD:EE:FF")
	require.Eventually(t, func() bool {
		return scanner.scanCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	s.Request("AA:BB:CC:DD:EE:FF")
	s.Request("AA:BB:CC:DD:EE:FF")
	assert.Equal(t, 1, scanner.scanCount(), "only one probe may be in flight")

	// After the timeout releases the probe, a new request may scan again
	require.Eventually(t, func() bool {
		s.Request("AA:BB:CC:DD:EE:FF")
		return scanner.scanCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := s.Current()
	assert.False(t, ok, "a probe that saw nothing records no reading")
}

func TestReadingGoesStale(t *testing.T) {
	scanner := newFakeScanner(advert{address: "AA:BB:CC:DD:EE:FF", rssi: -58})
	clock := &fakeClock{now: probeStart}
	s := New(Config{StaleAfter: 90 * time.Second, ProbeTimeout: 100 * time.Millisecond}, scanner, clock)

	s.Request("AA:BB:CC:DD:EE:FF")
	require.Eventually(t, func() bool {
		_, ok := s.Current()
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	clock.advance(90 * time.Second)
	_, ok := s.Current()
	assert.True(t, ok, "a reading exactly at the staleness bound still counts")

	clock.advance(time.Second)
	reading, ok := s.Current()
	assert.False(t, ok, "older readings are reported as unavailable")
	assert.Equal(t, -58, reading.RSSI, "the stale value itself is still visible")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60*time.Second, cfg.MinInterval)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 90*time.Second, cfg.StaleAfter)
}
