package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Global.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel to be INFO, got %s", cfg.Global.LogLevel)
	}
	if cfg.Global.DataDir == "" {
		t.Error("Expected DataDir to be set")
	}
	if cfg.RPC.ListenAddress == "" {
		t.Error("Expected RPC.ListenAddress to be set")
	}
	if cfg.Watcher.DebounceInterval != 200*time.Millisecond {
		t.Errorf("Expected DebounceInterval to be 200ms, got %v", cfg.Watcher.DebounceInterval)
	}
	if !cfg.Discovery.Enabled {
		t.Error("Expected Discovery to be enabled by default")
	}
	if cfg.SMB.CacheTTL != 30*time.Second {
		t.Errorf("Expected SMB CacheTTL to be 30s, got %v", cfg.SMB.CacheTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  func() *Configuration
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: func() *Configuration { return NewDefault() },
		},
		{
			name: "empty data dir",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Global.DataDir = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "data_dir must not be empty",
		},
		{
			name: "zero debounce interval",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Watcher.DebounceInterval = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "debounce_interval must be greater than 0",
		},
		{
			name: "zero smb cache ttl",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.SMB.CacheTTL = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "cache_ttl must be greater than 0",
		},
		{
			name: "invalid log level",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Global.LogLevel = "INVALID"
				return cfg
			},
			wantErr: true,
			errMsg:  "invalid log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want error containing %v", err, tt.errMsg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
global:
  log_level: DEBUG
  data_dir: /tmp/duopane-test

rpc:
  listen_address: 127.0.0.1:9999

discovery:
  enabled: false
`

	if err := os.WriteFile(configFile, []byte(configContent), 0600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromFile(configFile); err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Global.LogLevel != "DEBUG" {
		t.Errorf("Expected LogLevel to be DEBUG, got %s", cfg.Global.LogLevel)
	}
	if cfg.RPC.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("Expected ListenAddress to be 127.0.0.1:9999, got %s", cfg.RPC.ListenAddress)
	}
	if cfg.Discovery.Enabled {
		t.Error("Expected Discovery.Enabled to be false")
	}
}

func TestLoadFromFileNonExistent(t *testing.T) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error when loading non-existent config file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	testEnvVars := map[string]string{
		"DUOPANE_LOG_LEVEL":         "ERROR",
		"DUOPANE_DATA_DIR":          "/tmp/duopane-env-test",
		"DUOPANE_LISTEN":            "0.0.0.0:7000",
		"DUOPANE_WATCHER_DEBOUNCE":  "500ms",
		"DUOPANE_DISCOVERY_ENABLED": "false",
		"DUOPANE_METRICS_PORT":      "9191",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Global.LogLevel != "ERROR" {
		t.Errorf("Expected LogLevel to be ERROR, got %s", cfg.Global.LogLevel)
	}
	if cfg.Global.DataDir != "/tmp/duopane-env-test" {
		t.Errorf("Expected DataDir to be overridden, got %s", cfg.Global.DataDir)
	}
	if cfg.RPC.ListenAddress != "0.0.0.0:7000" {
		t.Errorf("Expected ListenAddress to be overridden, got %s", cfg.RPC.ListenAddress)
	}
	if cfg.Watcher.DebounceInterval != 500*time.Millisecond {
		t.Errorf("Expected DebounceInterval to be 500ms, got %v", cfg.Watcher.DebounceInterval)
	}
	if cfg.Discovery.Enabled {
		t.Error("Expected Discovery.Enabled to be false")
	}
	if cfg.Metrics.Port != 9191 {
		t.Errorf("Expected Metrics.Port to be 9191, got %d", cfg.Metrics.Port)
	}
}

func TestSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "saved_config.yaml")

	cfg := NewDefault()
	cfg.Global.LogLevel = "DEBUG"

	if err := cfg.SaveToFile(configFile); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	newCfg := NewDefault()
	if err := newCfg.LoadFromFile(configFile); err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if newCfg.Global.LogLevel != "DEBUG" {
		t.Errorf("Expected LogLevel to be DEBUG, got %s", newCfg.Global.LogLevel)
	}
}

func TestSaveToFileCreateDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := NewDefault()
	if err := cfg.SaveToFile(configFile); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
	if _, err := os.Stat(filepath.Dir(configFile)); os.IsNotExist(err) {
		t.Error("Config directory was not created")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
