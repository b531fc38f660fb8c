package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrTimeout         ErrorCode = "operation_timeout"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrInvalidSource ErrorCode = "invalid_source"
	ErrInvalidTheme  ErrorCode = "invalid_theme"
	ErrInvalidSink   ErrorCode = "invalid_sink"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"

	// Transport errors
	ErrAdapterUnavailable ErrorCode = "adapter_unavailable"
	ErrMissingToken       ErrorCode = "missing_access_token"
	ErrDeviceNotFound     ErrorCode = "device_not_found"
	ErrConnectFailed      ErrorCode = "connect_failed"
	ErrSubscribeFailed    ErrorCode = "subscribe_failed"
	ErrStreamClosed       ErrorCode = "stream_closed"

	// Publisher errors
	ErrPublishFailed ErrorCode = "publish_failed"

	// Signal probe errors
	ErrProbeFailed ErrorCode = "probe_failed"

	// Metrics errors
	ErrInitMetrics ErrorCode = "init_metrics_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:           "Internal error occurred",
	ErrInvalidArgument:    "Invalid argument provided",
	ErrTimeout:            "Operation timed out",
	ErrAlreadyRunning:     "Another instance is already running",
	ErrInvalidConfig:      "Invalid configuration",
	ErrBindFlags:          "Failed to bind flags",
	ErrReadConfig:         "Failed to read configuration",
	ErrInvalidSource:      "Invalid heart rate source",
	ErrInvalidTheme:       "Invalid theme name",
	ErrInvalidSink:        "Invalid OSC sink address",
	ErrInvalidLogLevel:    "Invalid log level",
	ErrInitFailed:         "Initialization failed",
	ErrShutdownFailed:     "Shutdown failed",
	ErrInitApp:            "Failed to initialize application",
	ErrMainLoop:           "Error in main loop",
	ErrAdapterUnavailable: "Bluetooth adapter unavailable",
	ErrMissingToken:       "Access token is not set",
	ErrDeviceNotFound:     "Heart rate monitor not found",
	ErrConnectFailed:      "Failed to connect to heart rate monitor",
	ErrSubscribeFailed:    "Failed to subscribe to heart rate stream",
	ErrStreamClosed:       "Heart rate stream closed",
	ErrPublishFailed:      "Failed to publish heart rate",
	ErrProbeFailed:        "Signal quality probe failed",
	ErrInitMetrics:        "Failed to initialize session metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
