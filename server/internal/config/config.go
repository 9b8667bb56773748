package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPHost       = "0.0.0.0"
	DefaultHTTPPort       = 8080
	DefaultESAddress      = "http://elasticsearch:9200"
	DefaultIndexPrefix    = "rbcapp1"
	DefaultPingTimeout    = 5 * time.Second
	DefaultQueryTimeout   = 10 * time.Second
	DefaultStreamInterval = 5 * time.Second
)

// Config holds the server-side configuration parsed from the `server:`
// section of the config file. A `monitor:` key in the same file is ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPHost and HTTPPort are the API bind address (default 0.0.0.0:8080).
	HTTPHost string `yaml:"http_host"`
	HTTPPort int    `yaml:"http_port"`

	// Elasticsearch configures the status store backend.
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`

	// Services is the registry of monitored service names, fixed after
	// startup. Defaults to httpd, rabbitmq, postgresql.
	Services []string `yaml:"services"`

	// Stream controls the WebSocket status broadcast.
	Stream StreamConfig `yaml:"stream"`

	// Auth configures write-path authentication.
	Auth AuthConfig `yaml:"auth"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// ElasticsearchConfig holds status store connection settings.
type ElasticsearchConfig struct {
	// Addresses is the list of node URLs (default http://elasticsearch:9200).
	Addresses []string `yaml:"addresses"`

	// IndexPrefix is prepended to service names to form index names.
	IndexPrefix string `yaml:"index_prefix"`

	// PingTimeout bounds the per-request health probe.
	PingTimeout time.Duration `yaml:"ping_timeout"`

	// QueryTimeout bounds reads and writes.
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// StreamConfig controls the WebSocket broadcast cadence.
type StreamConfig struct {
	// Interval is how often the bulk status snapshot is pushed to connected
	// clients. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

// AuthConfig controls authentication for write requests. Read endpoints are
// always public.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the key is read from. Defaults to "x-api-key".
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable that holds the
	// expected API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`
}

// Key returns the expected API key resolved from the environment.
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

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule fires when an accepted observation matches it.
type AlertRule struct {
	// Name is the human-readable alert identifier, used together with the
	// service name as the deduplication key.
	Name string `yaml:"name"`

	// Service restricts the rule to one registered service. Empty matches
	// every service.
	Service string `yaml:"service"`

	// Status is the observed status that fires the rule. Defaults to DOWN.
	Status string `yaml:"status"`

	// Severity is one of: critical | warning | info. Defaults to warning.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads the YAML config at path and applies environment overrides. A
// missing file is not an error — deployments that configure purely through
// the environment run on defaults. Pass "" to skip the file entirely.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults + environment.
		case err != nil:
			return nil, fmt.Errorf("server config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("server config: parse yaml: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPHost: DefaultHTTPHost,
			HTTPPort: DefaultHTTPPort,
			Elasticsearch: ElasticsearchConfig{
				Addresses:    []string{DefaultESAddress},
				IndexPrefix:  DefaultIndexPrefix,
				PingTimeout:  DefaultPingTimeout,
				QueryTimeout: DefaultQueryTimeout,
			},
			Services: []string{"httpd", "rabbitmq", "postgresql"},
			Stream: StreamConfig{
				Interval: DefaultStreamInterval,
			},
		},
	}
}

// applyEnv overlays deployment-environment knobs onto cfg.
// ELASTICSEARCH_HOST accepts a bare host:port; a scheme is prepended when
// absent.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ELASTICSEARCH_HOST"); v != "" {
		if !strings.Contains(v, "://") {
			v = "http://" + v
		}
		cfg.Server.Elasticsearch.Addresses = []string{v}
	}
	if v := os.Getenv("API_HOST"); v != "" {
		cfg.Server.HTTPHost = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if len(cfg.Server.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("server.elasticsearch.addresses must not be empty")
	}
	if len(cfg.Server.Services) == 0 {
		return fmt.Errorf("server.services must name at least one service")
	}
	for i, s := range cfg.Server.Services {
		if s == "" {
			return fmt.Errorf("server.services[%d] is empty", i)
		}
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	for i, r := range cfg.Server.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("server.alerts.rules[%d]: name is required", i)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("server.alerts.rules[%d] %q: unknown severity %q", i, r.Name, r.Severity)
		}
	}
	for i, w := range cfg.Server.Alerts.Webhooks {
		switch w.Type {
		case "slack", "http":
		default:
			return fmt.Errorf("server.alerts.webhooks[%d]: unknown type %q", i, w.Type)
		}
	}
	return nil
}
