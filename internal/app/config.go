package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	// Containers often ship without a zoneinfo database.
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the service.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":3005"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"90s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"75s"`
	AppBodyLimit      int64         `envconfig:"APP_BODY_LIMIT" default:"10485760"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	TempDir string `envconfig:"TEMP_DIR" default:"temp"`
	PDFDir  string `envconfig:"PDF_DIR" default:"pdfs"`

	ConverterBin            string        `envconfig:"CONVERTER_BIN" default:"pdfgen"`
	ConverterArgs           []string      `envconfig:"CONVERTER_ARGS"`
	ConverterTimeout        time.Duration `envconfig:"CONVERTER_TIMEOUT" default:"60s"`
	ConverterMaxConcurrency int64         `envconfig:"CONVERTER_MAX_CONCURRENCY" default:"4"`

	RenderTimezone string        `envconfig:"RENDER_TIMEZONE" default:"America/Sao_Paulo"`
	PDFCacheMaxAge time.Duration `envconfig:"PDF_CACHE_MAX_AGE" default:"20m"`
	RenderSchedule bool          `envconfig:"RENDER_SHOW_SCHEDULE" default:"false"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`

	OTelEnabled       bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint      string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	OTelInsecure      bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	OTelSamplingRatio float64 `envconfig:"OTEL_SAMPLING_RATIO" default:"1.0"`
	OTelServiceName   string  `envconfig:"OTEL_SERVICE_NAME" default:"serviceorder"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	for name, d := range map[string]time.Duration{
		"APP_READ_TIMEOUT":    c.AppReadTimeout,
		"APP_WRITE_TIMEOUT":   c.AppWriteTimeout,
		"APP_REQUEST_TIMEOUT": c.AppRequestTimeout,
		"CONVERTER_TIMEOUT":   c.ConverterTimeout,
		"RATE_LIMIT_WINDOW":   c.RateLimitWindow,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.ConverterTimeout > 0 && c.AppWriteTimeout > 0 && c.AppWriteTimeout <= c.ConverterTimeout {
		errs = append(errs, errors.New("APP_WRITE_TIMEOUT must exceed CONVERTER_TIMEOUT"))
	}
	if c.ConverterMaxConcurrency <= 0 {
		errs = append(errs, errors.New("CONVERTER_MAX_CONCURRENCY must be positive"))
	}
	if c.RateLimitRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be positive"))
	}
	if c.AppBodyLimit <= 0 {
		errs = append(errs, errors.New("APP_BODY_LIMIT must be positive"))
	}
	if c.ConverterBin == "" {
		errs = append(errs, errors.New("CONVERTER_BIN must be set"))
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		errs = append(errs, errors.New("OTEL_SAMPLING_RATIO must be between 0 and 1"))
	}
	if _, err := time.LoadLocation(c.RenderTimezone); err != nil {
		errs = append(errs, fmt.Errorf("RENDER_TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location is the zone dates are rendered in. Falls back to UTC when the
// configured zone cannot be loaded.
func (c *Config) Location() *time.Location {
	if c == nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.RenderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
