package config

// Source identifies which transport delivers heart rate samples.
type Source string

const (
	SourceBLE       Source = "ble"
	SourceWebSocket Source = "websocket"
)

// IsValid returns whether the source is valid
func (s Source) IsValid() bool {
	switch s {
	case SourceBLE, SourceWebSocket:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (s Source) String() string {
	return string(s)
}

// Theme names a UI color palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// IsValid returns whether the theme is valid
func (t Theme) IsValid() bool {
	switch t {
	case ThemeDark, ThemeLight:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (t Theme) String() string {
	return string(t)
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
