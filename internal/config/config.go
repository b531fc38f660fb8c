package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/PetLucy/LunaHR-Linux/internal/errors"
)

const (
	DefaultSource     = string(SourceBLE)
	DefaultDeviceName = "Polar H10"
	DefaultStreamURL  = "wss://dev.pulsoid.net/api/v1/data/real_time"
	DefaultOSCHost    = "127.0.0.1"
	DefaultOSCPort    = 9000
	DefaultTheme      = string(ThemeDark)
	DefaultLogLevel   = string(LogLevelInfo)

	envConfigPath = "LUNAHR_CONFIG"
	envPrefix     = "LUNAHR"
	configName    = "lunahr"
	configType    = "toml"
)

var errFactory = errors.New()

type Config struct {
	Source      string `mapstructure:"source"`
	DeviceName  string `mapstructure:"device_name"`
	StreamURL   string `mapstructure:"stream_url"`
	AccessToken string `mapstructure:"access_token"`
	OSCHost     string `mapstructure:"osc_host"`
	OSCPorts    []int  `mapstructure:"osc_ports"`
	Theme       string `mapstructure:"theme"`
	Headless    bool   `mapstructure:"headless"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// Load reads configuration from flags, environment variables and an optional
// TOML file, in that order of precedence. The file is looked up in the user
// config dir, /etc/lunahr and the working directory, or taken verbatim from
// the LUNAHR_CONFIG environment variable.
func Load() (*Config, error) {
	fs := pflag.NewFlagSet("lunahr", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("source", "", "Heart rate source: ble or websocket")
	fs.String("device-name", "", "Name prefix of the BLE heart rate monitor")
	fs.String("stream-url", "", "WebSocket heart rate stream URL")
	fs.String("access-token", "", "Access token for the WebSocket stream")
	fs.String("osc-host", "", "Host OSC messages are sent to")
	fs.IntSlice("osc-ports", nil, "UDP ports OSC messages are sent to")
	fs.String("theme", "", "UI theme: dark or light")
	fs.Bool("headless", false, "Run without the terminal UI")
	fs.String("log-level", "", "Log level: debug, info, warning or error")
	fs.String("log-file", "", "Write logs to this file in addition to the console")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(envConfigPath); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "lunahr"))
		}
		v.AddConfigPath("/etc/lunahr")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").WithData(err.Error())
		}
	}

	// Flags override both the file and the environment
	for key, name := range map[string]string{
		"source":       "source",
		"device_name":  "device-name",
		"stream_url":   "stream-url",
		"access_token": "access-token",
		"osc_host":     "osc-host",
		"osc_ports":    "osc-ports",
		"theme":        "theme",
		"headless":     "headless",
		"log_level":    "log-level",
		"log_file":     "log-file",
	} {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable. An empty access
// token is deliberately not rejected here: only the websocket transport cares,
// and it reports the problem as a connection error on its own.
func (c *Config) Validate() error {
	if !Source(c.Source).IsValid() {
		return errFactory.WithData(errors.ErrInvalidSource, c.Source)
	}
	if !Theme(c.Theme).IsValid() {
		return errFactory.WithData(errors.ErrInvalidTheme, c.Theme)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.OSCHost == "" {
		return errFactory.WithMessage(errors.ErrInvalidSink, "osc_host must not be empty")
	}
	if len(c.OSCPorts) == 0 {
		return errFactory.WithMessage(errors.ErrInvalidSink, "osc_ports must name at least one port")
	}
	for _, port := range c.OSCPorts {
		if port < 1 || port > 65535 {
			return errFactory.WithData(errors.ErrInvalidSink, port)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source", DefaultSource)
	v.SetDefault("device_name", DefaultDeviceName)
	v.SetDefault("stream_url", DefaultStreamURL)
	v.SetDefault("access_token", "")
	v.SetDefault("osc_host", DefaultOSCHost)
	v.SetDefault("osc_ports", []int{DefaultOSCPort})
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("headless", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
}
