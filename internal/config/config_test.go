package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetLucy/LunaHR-Linux/internal/config"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
source = "websocket"
device_name = "Polar H10 CA549333"
stream_url = "wss://stream.example.test/hr"
access_token = "abc123"
osc_host = "192.168.1.20"
osc_ports = [9000, 9001]
theme = "light"
headless = true
log_level = "debug"
log_file = "/var/log/lunahr.log"
`)
	configPath := filepath.Join(tempDir, "lunahr.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	// Set environment variable to point to the test config file
	t.Setenv("LUNAHR_CONFIG", configPath)

	// Load the config
	cfg, err := config.Load()
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "websocket", cfg.Source, "Expected Source websocket")
	assert.Equal(t, "Polar H10 CA549333", cfg.DeviceName, "Expected DeviceName from file")
	assert.Equal(t, "wss://stream.example.test/hr", cfg.StreamURL, "Expected StreamURL from file")
	assert.Equal(t, "abc123", cfg.AccessToken, "Expected AccessToken abc123")
	assert.Equal(t, "192.168.1.20", cfg.OSCHost, "Expected OSCHost from file")
	assert.Equal(t, []int{9000, 9001}, cfg.OSCPorts, "Expected both OSC ports")
	assert.Equal(t, "light", cfg.Theme, "Expected Theme light")
	assert.True(t, cfg.Headless, "Expected Headless true")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, "/var/log/lunahr.log", cfg.LogFile, "Expected LogFile from file")
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("LUNAHR_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	// Assert default values
	assert.Equal(t, config.DefaultSource, cfg.Source, "Expected default Source ble")
	assert.Equal(t, config.DefaultDeviceName, cfg.DeviceName, "Expected default DeviceName")
	assert.Equal(t, config.DefaultStreamURL, cfg.StreamURL, "Expected default StreamURL")
	assert.Empty(t, cfg.AccessToken, "Expected empty AccessToken")
	assert.Equal(t, config.DefaultOSCHost, cfg.OSCHost, "Expected default OSCHost")
	assert.Equal(t, []int{config.DefaultOSCPort}, cfg.OSCPorts, "Expected default OSC port 9000")
	assert.Equal(t, config.DefaultTheme, cfg.Theme, "Expected default Theme dark")
	assert.False(t, cfg.Headless, "Expected default Headless false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	// Create a temporary directory for the test
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// Create an invalid test config file
	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "lunahr.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	// Set environment variable to point to the invalid config file
	t.Setenv("LUNAHR_CONFIG", configPath)

	// Try to load the config
	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidSource(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
source = "ant+"
`)
	configPath := filepath.Join(tempDir, "lunahr.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("LUNAHR_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid heart rate source")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "lunahr.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("LUNAHR_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestInvalidOSCPort(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
osc_ports = [9000, 70000]
`)
	configPath := filepath.Join(tempDir, "lunahr.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("LUNAHR_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OSC sink address")
}

func TestLogLevelFlag(t *testing.T) {
	// Save original args and restore after test
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Setenv("LUNAHR_CONFIG", "")

	// Set test args
	os.Args = []string{"lunahr", "--log-level", "debug", "--source", "websocket"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, "websocket", cfg.Source, "Expected Source to be set by flag")
}
