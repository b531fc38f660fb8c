package transport

import (
	"context"
	"strings"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
	"github.com/PetLucy/LunaHR-Linux/internal/logger"
)

const defaultScanTimeout = 10 * time.Second

type BLEConfig struct {
	// DeviceName is the advertised name prefix to match during discovery
	DeviceName string
	// ScanTimeout bounds discovery; 0 selects the default
	ScanTimeout time.Duration
}

// advertisement is one discovery observation
type advertisement struct {
	addr bluetooth.Address
	name string
}

// radio abstracts BLE adapter access during discovery
type radio interface {
	Enable() error
	// Scan reports advertisements until StopScan is called
	Scan(onAdvert func(advertisement)) error
	StopScan() error
}

type adapterRadio struct {
	adapter *bluetooth.Adapter
}

func (r *adapterRadio) Enable() error {
	return r.adapter.Enable()
}

func (r *adapterRadio) Scan(onAdvert func(advertisement)) error {
	return r.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		onAdvert(advertisement{addr: result.Address, name: result.LocalName()})
	})
}

func (r *adapterRadio) StopScan() error {
	return r.adapter.StopScan()
}

// BLE receives heart rate notifications from a Bluetooth LE monitor
// exposing the standard heart rate service.
type BLE struct {
	base
	cfg     BLEConfig
	adapter *bluetooth.Adapter
	radio   radio
}

func NewBLE(cfg BLEConfig, events chan<- Event) *BLE {
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = defaultScanTimeout
	}

	adapter := bluetooth.DefaultAdapter
	return &BLE{
		base:    newBase(events),
		cfg:     cfg,
		adapter: adapter,
		radio:   &adapterRadio{adapter: adapter},
	}
}

func (t *BLE) Start(ctx context.Context) {
	go t.run(ctx)
}

func (t *BLE) run(parent context.Context) {
	defer close(t.done)

	ctx, cancel := t.sessionContext(parent)
	defer cancel()

	errFactory := errors.New()

	if err := t.radio.Enable(); err != nil {
		t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.Wrap(ErrAdapterUnavailable, err))})
		return
	}

	t.emit(ctx, StatusEvent{SessionID: t.session, Status: Searching()})
	logger.Debug().Str("device_name", t.cfg.DeviceName).Msg("Scanning for heart rate monitor")

	result, found := t.discover(ctx)
	if !found {
		if ctx.Err() != nil {
			t.emitFinal(StatusEvent{SessionID: t.session, Status: Cancelled()})
		} else {
			t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.WithData(ErrDeviceNotFound, t.cfg.DeviceName))})
		}
		return
	}

	t.emit(ctx, IdentityEvent{SessionID: t.session, Address: result.addr.String()})
	t.emit(ctx, StatusEvent{SessionID: t.session, Status: ConnectingTo(result.name)})

	device, err := t.adapter.Connect(result.addr, bluetooth.ConnectionParams{})
	if err != nil {
		if ctx.Err() != nil {
			t.emitFinal(StatusEvent{SessionID: t.session, Status: Cancelled()})
		} else {
			t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.Wrap(ErrConnectFailed, err))})
		}
		return
	}
	defer func() {
		if err := device.Disconnect(); err != nil {
			logger.Debug().Err(err).Msg("BLE disconnect failed")
		}
	}()

	if err := t.subscribe(ctx, device); err != nil {
		t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.Wrap(ErrSubscribeFailed, err))})
		return
	}

	t.emit(ctx, StatusEvent{SessionID: t.session, Status: Connected()})
	logger.Debug().Str("address", result.addr.String()).Msg("Receiving heart rate notifications")

	// Notifications arrive on the adapter's callback; stalls are the
	// supervisor's watchdog to judge. The loop only waits for teardown.
	<-ctx.Done()
	t.emitFinal(StatusEvent{SessionID: t.session, Status: Cancelled()})
}

// discover scans until a device advertising the configured name prefix is
// seen, the scan window elapses, or the session is cancelled.
func (t *BLE) discover(ctx context.Context) (advertisement, bool) {
	found := make(chan advertisement, 1)
	scanDone := make(chan struct{})
	defer close(scanDone)

	timer := time.AfterFunc(t.cfg.ScanTimeout, func() {
		_ = t.radio.StopScan()
	})
	defer timer.Stop()

	go func() {
		select {
		case <-ctx.Done():
			_ = t.radio.StopScan()
		case <-scanDone:
		}
	}()

	err := t.radio.Scan(func(adv advertisement) {
		if !strings.HasPrefix(adv.name, t.cfg.DeviceName) {
			return
		}
		select {
		case found <- adv:
		default:
		}
		_ = t.radio.StopScan()
	})
	if err != nil {
		logger.Debug().Err(err).Msg("BLE scan ended with error")
	}

	select {
	case result := <-found:
		return result, true
	default:
		return advertisement{}, false
	}
}

func (t *BLE) subscribe(ctx context.Context, device bluetooth.Device) error {
	errFactory := errors.New()

	srvcs, err := device.DiscoverServices([]bluetooth.UUID{bluetooth.ServiceUUIDHeartRate})
	if err != nil {
		return err
	}
	if len(srvcs) == 0 {
		return errFactory.WithMessage(ErrSubscribeFailed, "heart rate service not found")
	}

	chars, err := srvcs[0].DiscoverCharacteristics([]bluetooth.UUID{bluetooth.CharacteristicUUIDHeartRateMeasurement})
	if err != nil {
		return err
	}
	if len(chars) == 0 {
		return errFactory.WithMessage(ErrSubscribeFailed, "heart rate measurement characteristic not found")
	}

	return chars[0].EnableNotifications(func(buf []byte) {
		if bpm, ok := decodeMeasurement(buf); ok {
			t.emit(ctx, SampleEvent{SessionID: t.session, BPM: bpm})
		}
	})
}

// decodeMeasurement extracts the bpm from a heart rate measurement
// notification. The layout is a flags byte followed by the reading;
// payloads without a reading byte carry nothing.
func decodeMeasurement(buf []byte) (int, bool) {
	if len(buf) < 2 {
		return 0, false
	}

	return int(buf[1]), true
}
