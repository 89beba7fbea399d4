package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration is the complete engine configuration, loaded from a YAML
// file on disk and overlaid with environment variables.
type Configuration struct {
	Global    GlobalConfig    `yaml:"global"`
	RPC       RPCConfig       `yaml:"rpc"`
	Watcher   WatcherConfig   `yaml:"watcher"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	SMB       SMBConfig       `yaml:"smb"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// GlobalConfig holds process-wide settings.
type GlobalConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogJSON     bool   `yaml:"log_json"`
	DataDir     string `yaml:"data_dir"`
	BenchLog    bool   `yaml:"bench_log"`
}

// RPCConfig configures the HTTP/WebSocket command surface (spec §4.12/§6).
type RPCConfig struct {
	ListenAddress string `yaml:"listen_address"`
}

// WatcherConfig configures the filesystem-change watcher (spec §4.5).
type WatcherConfig struct {
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// DiscoveryConfig configures the mDNS host browser (spec §4.7).
type DiscoveryConfig struct {
	Enabled      bool          `yaml:"enabled"`
	ServiceType  string        `yaml:"service_type"`
	BrowseDomain string        `yaml:"browse_domain"`
	ResolveDeadline time.Duration `yaml:"resolve_deadline"`
}

// SMBConfig configures the share enumerator (spec §4.8).
type SMBConfig struct {
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Configuration{
		Global: GlobalConfig{
			LogLevel: "INFO",
			LogJSON:  false,
			DataDir:  filepath.Join(home, ".duopane"),
			BenchLog: false,
		},
		RPC: RPCConfig{
			ListenAddress: "127.0.0.1:8722",
		},
		Watcher: WatcherConfig{
			DebounceInterval: 200 * time.Millisecond,
		},
		Discovery: DiscoveryConfig{
			Enabled:         true,
			ServiceType:     "_smb._tcp",
			BrowseDomain:    "local.",
			ResolveDeadline: 5 * time.Second,
		},
		SMB: SMBConfig{
			CacheTTL:       30 * time.Second,
			ConnectTimeout: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9722,
		},
	}
}

// LoadFromFile loads configuration from a YAML file, overlaying NewDefault.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadFromEnv overlays configuration from DUOPANE_* environment variables.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("DUOPANE_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("DUOPANE_LOG_JSON"); val != "" {
		c.Global.LogJSON = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("DUOPANE_DATA_DIR"); val != "" {
		c.Global.DataDir = val
	}
	if val := os.Getenv("DUOPANE_BENCH_LOG"); val != "" {
		c.Global.BenchLog = val == "1" || strings.ToLower(val) == "true"
	}
	if val := os.Getenv("DUOPANE_LISTEN"); val != "" {
		c.RPC.ListenAddress = val
	}
	if val := os.Getenv("DUOPANE_WATCHER_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Watcher.DebounceInterval = d
		}
	}
	if val := os.Getenv("DUOPANE_DISCOVERY_ENABLED"); val != "" {
		c.Discovery.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("DUOPANE_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Metrics.Port = port
		}
	}
	return nil
}

// SaveToFile saves the configuration to a YAML file.
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks invariants that must hold before the engine starts.
func (c *Configuration) Validate() error {
	if c.Global.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Watcher.DebounceInterval <= 0 {
		return fmt.Errorf("watcher.debounce_interval must be greater than 0")
	}
	if c.SMB.CacheTTL <= 0 {
		return fmt.Errorf("smb.cache_ttl must be greater than 0")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if strings.EqualFold(c.Global.LogLevel, level) {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}
