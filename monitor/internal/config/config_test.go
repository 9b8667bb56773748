package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
monitor:
  interval: 30s
  host_name: web01
  transport: api
  api_endpoint: "http://api.internal:8080"
  services:
    - name: httpd
      source: tcp
      endpoint: "localhost:80"
    - name: rabbitmq
      source: static
      status: DOWN
`
	cfg := loadFromString(t, yaml)

	m := cfg.Monitor
	if m.Interval != 30*time.Second {
		t.Errorf("interval: got %v", m.Interval)
	}
	if m.HostName != "web01" {
		t.Errorf("host_name: got %q", m.HostName)
	}
	if m.APIEndpoint != "http://api.internal:8080" {
		t.Errorf("api_endpoint: got %q", m.APIEndpoint)
	}
	if len(m.Services) != 2 {
		t.Fatalf("services: got %d, want 2", len(m.Services))
	}
	if m.Services[0].Source != "tcp" || m.Services[0].Endpoint != "localhost:80" {
		t.Errorf("services[0]: got %+v", m.Services[0])
	}
	if m.Services[1].Status != "DOWN" {
		t.Errorf("services[1].status: got %q", m.Services[1].Status)
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := `
monitor:
  services:
    - name: httpd
`
	cfg := loadFromString(t, yaml)

	m := cfg.Monitor
	if m.Interval != DefaultInterval {
		t.Errorf("default interval: got %v, want %v", m.Interval, DefaultInterval)
	}
	if m.Transport != "api" {
		t.Errorf("default transport: got %q, want api", m.Transport)
	}
	if m.APIEndpoint != DefaultAPIEndpoint {
		t.Errorf("default api_endpoint: got %q, want %q", m.APIEndpoint, DefaultAPIEndpoint)
	}
	host, _ := os.Hostname()
	if m.HostName != host {
		t.Errorf("default host_name: got %q, want machine hostname %q", m.HostName, host)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_ENDPOINT", "http://override:9999")
	t.Setenv("STATUS_OUTPUT_DIR", "/var/run/status")
	yaml := `
monitor:
  api_endpoint: "http://file:8080"
  services:
    - name: httpd
`
	cfg := loadFromString(t, yaml)

	if cfg.Monitor.APIEndpoint != "http://override:9999" {
		t.Errorf("api_endpoint: got %q, want env override", cfg.Monitor.APIEndpoint)
	}
	if cfg.Monitor.OutputDir != "/var/run/status" {
		t.Errorf("output_dir: got %q, want env override", cfg.Monitor.OutputDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no services",
			yaml: `
monitor:
  transport: api
`,
		},
		{
			name: "unknown transport",
			yaml: `
monitor:
  transport: carrier-pigeon
  services:
    - name: httpd
`,
		},
		{
			name: "tcp source without endpoint",
			yaml: `
monitor:
  services:
    - name: httpd
      source: tcp
`,
		},
		{
			name: "unknown source",
			yaml: `
monitor:
  services:
    - name: httpd
      source: carrier-pigeon
`,
		},
		{
			name: "unnamed service",
			yaml: `
monitor:
  services:
    - source: static
`,
		},
		{
			name: "negative interval",
			yaml: `
monitor:
  interval: -5s
  services:
    - name: httpd
`,
		},
		{
			name: "unknown auth mode",
			yaml: `
monitor:
  auth:
    mode: magictoken
  services:
    - name: httpd
`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadStringErr(t, tc.yaml); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestAuthConfig_Key(t *testing.T) {
	t.Setenv("MON_API_KEY", "supersecret")
	a := AuthConfig{Mode: "apikey", KeyEnv: "MON_API_KEY"}
	if got := a.Key(); got != "supersecret" {
		t.Errorf("Key(): got %q, want %q", got, "supersecret")
	}
	if got := (AuthConfig{}).Key(); got != "" {
		t.Errorf("Key() with no KeyEnv: got %q, want empty", got)
	}
}

func TestAuthConfig_EffectiveHeader(t *testing.T) {
	if got := (AuthConfig{}).EffectiveHeader(); got != "x-api-key" {
		t.Errorf("default header: got %q", got)
	}
	if got := (AuthConfig{Header: "x-token"}).EffectiveHeader(); got != "x-token" {
		t.Errorf("custom header: got %q", got)
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
