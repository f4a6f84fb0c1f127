package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artpar/paramset/config"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
logging:
  level: debug
  format: console

schema:
  path: schemas/device.yaml

values:
  path: values.txt
  format: compact

metrics:
  enabled: true
  addr: "127.0.0.1:9100"
`

	cfg := writeAndLoad(t, content)

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %s, want console", cfg.Logging.Format)
	}
	if cfg.Schema.Path != "schemas/device.yaml" {
		t.Errorf("Schema.Path = %s, want schemas/device.yaml", cfg.Schema.Path)
	}
	if cfg.Values.Path != "values.txt" {
		t.Errorf("Values.Path = %s, want values.txt", cfg.Values.Path)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Metrics.Addr != "127.0.0.1:9100" {
		t.Errorf("Metrics.Addr = %s, want 127.0.0.1:9100", cfg.Metrics.Addr)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("Metrics.Addr = %s, want :9090", cfg.Metrics.Addr)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_VALUES_DIR", "/var/lib/device")

	cfg := writeAndLoad(t, `
values:
  path: "${TEST_VALUES_DIR}/values.json"
`)

	if cfg.Values.Path != "/var/lib/device/values.json" {
		t.Errorf("Values.Path = %s, want /var/lib/device/values.json", cfg.Values.Path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARAMSET_LOG_LEVEL", "warn")
	t.Setenv("PARAMSET_SCHEMA", "/etc/paramset/schema.toml")
	t.Setenv("PARAMSET_VALUES", "/tmp/values.json")
	t.Setenv("PARAMSET_VALUES_FORMAT", "JSON")
	t.Setenv("PARAMSET_METRICS_ENABLED", "true")

	cfg := writeAndLoad(t, `
logging:
  level: debug
schema:
  path: schema.yaml
`)

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn", cfg.Logging.Level)
	}
	if cfg.Schema.Path != "/etc/paramset/schema.toml" {
		t.Errorf("Schema.Path = %s, want /etc/paramset/schema.toml", cfg.Schema.Path)
	}
	if cfg.Values.Path != "/tmp/values.json" {
		t.Errorf("Values.Path = %s, want /tmp/values.json", cfg.Values.Path)
	}
	if cfg.Values.Format != "json" {
		t.Errorf("Values.Format = %s, want json", cfg.Values.Format)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("PARAMSET_METRICS_ENABLED", "sometimes")

	if _, err := config.Load(""); err == nil {
		t.Error("Load should fail on a malformed boolean")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "logging:\n  level: loud\n"},
		{"log format", "logging:\n  format: xml\n"},
		{"values format", "values:\n  format: csv\n"},
		{"malformed yaml", "logging: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := writeAndLoadErr(t, tt.content); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestValuesFormat(t *testing.T) {
	tests := []struct {
		path   string
		format string
		want   string
	}{
		{"values.json", "", "json"},
		{"VALUES.JSON", "", "json"},
		{"values.txt", "", "compact"},
		{"values", "", "compact"},
		{"values.txt", "json", "json"},
	}
	for _, tt := range tests {
		cfg := config.Config{Values: config.ValuesConfig{Path: tt.path, Format: tt.format}}
		if got := cfg.ValuesFormat(); got != tt.want {
			t.Errorf("ValuesFormat(%q, %q) = %s, want %s", tt.path, tt.format, got, tt.want)
		}
	}
}

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := writeAndLoadErr(t, content)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func writeAndLoadErr(t *testing.T, content string) (*config.Config, error) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return config.Load(path)
}
