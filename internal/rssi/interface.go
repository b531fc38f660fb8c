package rssi

import (
	"time"

	"tinygo.org/x/bluetooth"
)

// Scanner abstracts BLE discovery for signal probes
type Scanner interface {
	// Scan reports advertisements until StopScan is called
	Scan(onResult func(address string, rssi int)) error
	StopScan() error
}

// Reading is one observed signal strength value
type Reading struct {
	RSSI      int
	SampledAt time.Time
}

type adapterScanner struct {
	adapter *bluetooth.Adapter
}

// NewAdapterScanner adapts a bluetooth adapter to the Scanner seam
func NewAdapterScanner(adapter *bluetooth.Adapter) Scanner {
	return &adapterScanner{adapter: adapter}
}

func (s *adapterScanner) Scan(onResult func(address string, rssi int)) error {
	return s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		onResult(result.Address.String(), int(result.RSSI))
	})
}

func (s *adapterScanner) StopScan() error {
	return s.adapter.StopScan()
}
