package publisher

import "github.com/PetLucy/LunaHR-Linux/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidSink   = errors.ErrInvalidSink

	// Send Errors
	ErrSendFailed = errors.ErrorCode("publisher_send_failed")
)
