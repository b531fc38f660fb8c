package transport

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
	"github.com/PetLucy/LunaHR-Linux/internal/logger"
)

const (
	defaultDialTimeout  = 10 * time.Second
	defaultPingInterval = 25 * time.Second
)

type WSConfig struct {
	// URL of the heart rate stream endpoint
	URL string
	// Token authenticates the subscription; the session refuses to dial
	// without one
	Token string
	// DialTimeout bounds the websocket handshake; 0 selects the default
	DialTimeout time.Duration
	// PingInterval paces keepalive pings; 0 selects the default
	PingInterval time.Duration
}

// WS subscribes to a websocket heart rate stream.
type WS struct {
	base
	cfg WSConfig
}

func NewWS(cfg WSConfig, events chan<- Event) *WS {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}

	return &WS{
		base: newBase(events),
		cfg:  cfg,
	}
}

func (t *WS) Start(ctx context.Context) {
	go t.run(ctx)
}

func (t *WS) run(parent context.Context) {
	defer close(t.done)

	ctx, cancel := t.sessionContext(parent)
	defer cancel()

	errFactory := errors.New()

	if t.cfg.Token == "" {
		t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.New(ErrMissingToken))})
		return
	}

	endpoint, err := buildStreamURL(t.cfg.URL, t.cfg.Token)
	if err != nil {
		t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(err)})
		return
	}

	host := t.cfg.URL
	if u, parseErr := url.Parse(t.cfg.URL); parseErr == nil {
		host = u.Host
	}
	t.emit(ctx, StatusEvent{SessionID: t.session, Status: ConnectingTo(host)})

	dialCtx, dialCancel := context.WithTimeout(ctx, t.cfg.DialTimeout)
	conn, _, err := websocket.Dial(dialCtx, endpoint, nil)
	dialCancel()
	if err != nil {
		if ctx.Err() != nil {
			t.emitFinal(StatusEvent{SessionID: t.session, Status: Cancelled()})
		} else {
			t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.Wrap(ErrConnectFailed, err))})
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	t.emit(ctx, StatusEvent{SessionID: t.session, Status: Connected()})
	logger.Debug().Str("host", host).Msg("Subscribed to heart rate stream")

	go t.ping(ctx, conn)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.emitFinal(StatusEvent{SessionID: t.session, Status: Cancelled()})
			} else {
				t.emitFinal(StatusEvent{SessionID: t.session, Status: Failed(errFactory.Wrap(ErrStreamClosed, err))})
			}
			return
		}

		if bpm, ok := decodeMessage(data); ok {
			t.emit(ctx, SampleEvent{SessionID: t.session, BPM: bpm})
		} else {
			logger.Debug().Str("payload", truncate(data)).Msg("Unrecognized stream message")
		}
	}
}

func (t *WS) ping(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(t.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				// The read loop surfaces the broken connection
				return
			}
		}
	}
}

// buildStreamURL appends the access token to the endpoint's query string
func buildStreamURL(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.New().Wrap(ErrBadStreamURL, err)
	}

	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// decodeMessage extracts a heart rate from a stream payload. Both common
// JSON layouts are accepted, plus a bare integer; anything else is dropped.
func decodeMessage(data []byte) (int, bool) {
	var payload struct {
		HeartRate *int `json:"heart_rate"`
		Data      struct {
			HeartRate *int `json:"heart_rate"`
		} `json:"data"`
	}

	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.HeartRate != nil && *payload.HeartRate >= 0 {
			return *payload.HeartRate, true
		}
		if payload.Data.HeartRate != nil && *payload.Data.HeartRate >= 0 {
			return *payload.Data.HeartRate, true
		}
		return 0, false
	}

	if bpm, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && bpm >= 0 {
		return bpm, true
	}

	return 0, false
}

func truncate(data []byte) string {
	const max = 64
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
