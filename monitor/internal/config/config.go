package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultInterval    = 60 * time.Second
	DefaultAPIEndpoint = "http://localhost:8080"
	DefaultOutputDir   = "/tmp/status"
)

// Config holds the monitor-side configuration parsed from the `monitor:`
// section of the config file. A `server:` key in the same file is ignored,
// so one file can drive both binaries.
type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

// MonitorConfig holds all monitor-side settings.
type MonitorConfig struct {
	// Interval controls how often every service is checked.
	Interval time.Duration `yaml:"interval"`

	// HostName is stamped on every emitted observation. Defaults to the
	// machine hostname.
	HostName string `yaml:"host_name"`

	// Transport selects where observations go: api | file.
	Transport string `yaml:"transport"`

	// APIEndpoint is the base URL of the ingestion API (transport: api).
	APIEndpoint string `yaml:"api_endpoint"`

	// OutputDir is where status files are written (transport: file).
	OutputDir string `yaml:"output_dir"`

	// Auth configures how the monitor authenticates to the ingestion API.
	Auth AuthConfig `yaml:"auth"`

	// Services lists the services to check each cycle.
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig describes one monitored service and how its status is
// determined.
type ServiceConfig struct {
	// Name is the registered service name (e.g. httpd).
	Name string `yaml:"name"`

	// Source selects the check: static | tcp | prometheus.
	Source string `yaml:"source"`

	// Status is the fixed status reported by a static source. Defaults to UP.
	Status string `yaml:"status"`

	// Endpoint is the check target: host:port for tcp, a full metrics URL
	// for prometheus.
	Endpoint string `yaml:"endpoint"`
}

// AuthConfig specifies how the monitor authenticates to the ingestion API.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the key is sent in. Defaults to "x-api-key".
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment. Returns empty
// string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// Load reads and parses the YAML config file at path and applies environment
// overrides. Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("monitor config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("monitor config: parse yaml: %w", err)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("monitor config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	host, _ := os.Hostname()
	return &Config{
		Monitor: MonitorConfig{
			Interval:    DefaultInterval,
			HostName:    host,
			Transport:   "api",
			APIEndpoint: DefaultAPIEndpoint,
			OutputDir:   DefaultOutputDir,
		},
	}
}

// applyEnv overlays deployment-environment knobs onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("API_ENDPOINT"); v != "" {
		cfg.Monitor.APIEndpoint = v
	}
	if v := os.Getenv("STATUS_OUTPUT_DIR"); v != "" {
		cfg.Monitor.OutputDir = v
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	m := cfg.Monitor
	if m.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	if m.HostName == "" {
		return fmt.Errorf("monitor.host_name is required")
	}
	switch m.Transport {
	case "api":
		if m.APIEndpoint == "" {
			return fmt.Errorf("monitor.api_endpoint is required for the api transport")
		}
	case "file":
		if m.OutputDir == "" {
			return fmt.Errorf("monitor.output_dir is required for the file transport")
		}
	default:
		return fmt.Errorf("monitor.transport %q unknown: want api|file", m.Transport)
	}
	switch m.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("monitor.auth.mode %q unknown: want apikey|none", m.Auth.Mode)
	}
	if len(m.Services) == 0 {
		return fmt.Errorf("monitor.services must name at least one service")
	}
	for i, svc := range m.Services {
		if svc.Name == "" {
			return fmt.Errorf("monitor.services[%d]: name is required", i)
		}
		switch svc.Source {
		case "static", "":
		case "tcp", "prometheus":
			if svc.Endpoint == "" {
				return fmt.Errorf("monitor.services[%d] %q: endpoint is required for the %s source", i, svc.Name, svc.Source)
			}
		default:
			return fmt.Errorf("monitor.services[%d] %q: unknown source %q", i, svc.Name, svc.Source)
		}
	}
	return nil
}
