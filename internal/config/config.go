package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string       `yaml:"addr"`
	WebDir       string       `yaml:"web_dir"`
	LogLevel     string       `yaml:"log_level"`
	Storage      Storage      `yaml:"storage"`
	Rankings     Rankings     `yaml:"rankings"`
	Certificates Certificates `yaml:"certificates"`
	Admin        Admin        `yaml:"admin"`
	CORS         CORS         `yaml:"cors"`
	Telemetry    Telemetry    `yaml:"telemetry"`
	PDF          PDF          `yaml:"pdf"`
}

type Storage struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type Rankings struct {
	PageSize       int           `yaml:"page_size"`
	SummaryLimit   int           `yaml:"summary_limit"`
	ExportCacheTTL time.Duration `yaml:"export_cache_ttl"`
}

type Certificates struct {
	// Delay is nil when unset so that an explicit 0 survives defaults.
	Delay *time.Duration `yaml:"delay"`
}

// Admin holds the stub login pair. Leaving either empty disables login.
type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

type PDF struct {
	ChromePath string `yaml:"chrome_path"`
}

const maxPageSize = 500

// Load reads configuration from a YAML file and applies defaults. A missing
// file yields the defaults. Variables from a .env file are loaded first and
// never override the real environment.
func Load(path string) (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, eris.Wrap(err, "read config file")
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrap(err, "parse config yaml")
		}
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, eris.Wrap(err, "validate config")
	}
	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("GTAP_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

func loadDotEnv() {
	candidates := []string{".env", "../.env"}
	if p := os.Getenv("GTAP_ENV"); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// CertificateDelay is the configured lookup delay.
func (c *Config) CertificateDelay() time.Duration {
	if c.Certificates.Delay == nil {
		return 750 * time.Millisecond
	}
	return *c.Certificates.Delay
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.WebDir == "" {
		cfg.WebDir = "web"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./gtap.db"
	}
	if cfg.Rankings.PageSize == 0 {
		cfg.Rankings.PageSize = 50
	}
	if cfg.Rankings.SummaryLimit == 0 {
		cfg.Rankings.SummaryLimit = 5
	}
	if cfg.Rankings.ExportCacheTTL == 0 {
		cfg.Rankings.ExportCacheTTL = 10 * time.Minute
	}
	if cfg.Certificates.Delay == nil {
		d := 750 * time.Millisecond
		cfg.Certificates.Delay = &d
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "gtap-site"
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"GTAP_ADDR", &cfg.Addr},
		{"GTAP_WEB_DIR", &cfg.WebDir},
		{"GTAP_DB", &cfg.Storage.Path},
		{"GTAP_LOG_LEVEL", &cfg.LogLevel},
		{"GTAP_ADMIN_EMAIL", &cfg.Admin.Email},
		{"GTAP_ADMIN_PASSWORD", &cfg.Admin.Password},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Rankings.PageSize < 1 || cfg.Rankings.PageSize > maxPageSize {
		return eris.Errorf("rankings.page_size must be between 1 and %d, got %d", maxPageSize, cfg.Rankings.PageSize)
	}
	if cfg.Rankings.SummaryLimit < 1 {
		return eris.Errorf("rankings.summary_limit must be at least 1, got %d", cfg.Rankings.SummaryLimit)
	}
	if cfg.Rankings.ExportCacheTTL < 0 {
		return eris.New("rankings.export_cache_ttl must not be negative")
	}
	switch cfg.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		return eris.Errorf("storage.driver must be sqlite, file or memory, got %q", cfg.Storage.Driver)
	}
	if *cfg.Certificates.Delay < 0 {
		return eris.New("certificates.delay must not be negative")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return eris.Errorf("log_level must be debug, info, warn or error, got %q", cfg.LogLevel)
	}
	return nil
}
