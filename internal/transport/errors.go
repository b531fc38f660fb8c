package transport

import "github.com/PetLucy/LunaHR-Linux/internal/errors"

const (
	// Session Errors
	ErrAdapterUnavailable = errors.ErrorCode("transport_adapter_unavailable")
	ErrDeviceNotFound     = errors.ErrorCode("transport_device_not_found")
	ErrConnectFailed      = errors.ErrorCode("transport_connect_failed")
	ErrSubscribeFailed    = errors.ErrorCode("transport_subscribe_failed")
	ErrStreamClosed       = errors.ErrorCode("transport_stream_closed")

	// Stream Errors
	ErrMissingToken = errors.ErrorCode("transport_missing_token")
	ErrBadStreamURL = errors.ErrorCode("transport_bad_stream_url")
)
