package supervisor

import "github.com/PetLucy/LunaHR-Linux/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig

	// Wiring Errors
	ErrMissingDependency = errors.ErrorCode("supervisor_missing_dependency")
)
