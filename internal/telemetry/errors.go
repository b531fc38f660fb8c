package telemetry

import "github.com/PetLucy/LunaHR-Linux/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig   = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidWindow   = errors.ErrorCode("telemetry_invalid_window")
	ErrInvalidSnapBack = errors.ErrorCode("telemetry_invalid_snap_back")
)
