package publisher

import (
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetLucy/LunaHR-Linux/internal/metrics"
	"github.com/PetLucy/LunaHR-Linux/internal/telemetry"
)

type fakeSender struct {
	fail bool
	sent []*osc.Message
}

func (f *fakeSender) Send(p osc.Packet) error {
	if f.fail {
		return assert.AnError
	}
	if m, ok := p.(*osc.Message); ok {
		f.sent = append(f.sent, m)
	}
	return nil
}

func testSinks(senders ...Sender) []sink {
	sinks := make([]sink, 0, len(senders))
	for i, s := range senders {
		sinks = append(sinks, sink{target: Target{Host: "127.0.0.1", Port: 9000 + i}, client: s})
	}
	return sinks
}

func TestDigits(t *testing.T) {
	cases := []struct {
		bpm, ones, tens, hundreds int
	}{
		{0, 0, 0, 0},
		{7, 7, 0, 0},
		{64, 4, 6, 0},
		{128, 8, 2, 1},
		{255, 5, 5, 2},
	}

	for _, c := range cases {
		ones, tens, hundreds := digits(c.bpm)
		assert.Equal(t, c.ones, ones, "ones of %d", c.bpm)
		assert.Equal(t, c.tens, tens, "tens of %d", c.bpm)
		assert.Equal(t, c.hundreds, hundreds, "hundreds of %d", c.bpm)
	}
}

func TestSendFansOutAllFourMessages(t *testing.T) {
	sender := &fakeSender{}
	stats := metrics.NewService(true, telemetry.RealClock{})
	p := newWithSinks(testSinks(sender), stats, 4)

	p.send(telemetry.Sample{Time: time.Now(), BPM: 128})

	require.Len(t, sender.sent, 4, "one message per parameter")
	assert.Equal(t, AddrOnes, sender.sent[0].Address)
	assert.Equal(t, AddrTens, sender.sent[1].Address)
	assert.Equal(t, AddrHundreds, sender.sent[2].Address)
	assert.Equal(t, AddrHeartRate, sender.sent[3].Address)

	assert.Equal(t, []interface{}{int32(8)}, sender.sent[0].Arguments)
	assert.Equal(t, []interface{}{int32(2)}, sender.sent[1].Arguments)
	assert.Equal(t, []interface{}{int32(1)}, sender.sent[2].Arguments)
	assert.Equal(t, []interface{}{int32(128)}, sender.sent[3].Arguments)
}

func TestFailingSinkDoesNotStopOthers(t *testing.T) {
	bad := &fakeSender{fail: true}
	good := &fakeSender{}
	stats := metrics.NewService(true, telemetry.RealClock{})
	p := newWithSinks(testSinks(bad, good), stats, 4)

	p.send(telemetry.Sample{Time: time.Now(), BPM: 72})

	assert.Len(t, good.sent, 4, "healthy sink should still receive all messages")

	snap := stats.Snapshot()
	assert.Equal(t, uint64(1), snap.PublishFaults, "the failing sink should be counted")
	assert.Equal(t, uint64(1), snap.SamplesPublished)
}

func TestDrainPreservesArrivalOrder(t *testing.T) {
	sender := &fakeSender{}
	stats := metrics.NewService(true, telemetry.RealClock{})
	p := newWithSinks(testSinks(sender), stats, 8)
	p.Start()

	now := time.Now()
	for _, bpm := range []int{60, 61, 62} {
		p.Publish(telemetry.Sample{Time: now, BPM: bpm})
	}
	p.Close()

	require.Len(t, sender.sent, 12)
	// Raw heart rate is the fourth message of each fan-out
	assert.Equal(t, []interface{}{int32(60)}, sender.sent[3].Arguments)
	assert.Equal(t, []interface{}{int32(61)}, sender.sent[7].Arguments)
	assert.Equal(t, []interface{}{int32(62)}, sender.sent[11].Arguments)

	assert.Equal(t, uint64(3), stats.Snapshot().SamplesPublished)
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	stats := metrics.NewService(true, telemetry.RealClock{})
	// Drain goroutine deliberately not started
	p := newWithSinks(testSinks(&fakeSender{}), stats, 1)

	p.Publish(telemetry.Sample{BPM: 60})
	p.Publish(telemetry.Sample{BPM: 61})

	assert.Equal(t, uint64(1), stats.Snapshot().PublishDropped, "second sample should be dropped")
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	sender := &fakeSender{}
	stats := metrics.NewService(true, telemetry.RealClock{})
	p := newWithSinks(testSinks(sender), stats, 4)
	p.Start()
	p.Close()

	p.Publish(telemetry.Sample{BPM: 60})

	assert.Empty(t, sender.sent)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Host: "", Ports: []int{9000}}.Validate())
	assert.Error(t, Config{Host: "127.0.0.1"}.Validate())
	assert.Error(t, Config{Host: "127.0.0.1", Ports: []int{0}}.Validate())
	assert.NoError(t, Config{Host: "127.0.0.1", Ports: []int{9000, 9001}}.Validate())
}
