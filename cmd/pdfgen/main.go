// Command pdfgen converts one HTML file into a decorated A4 PDF. It speaks
// the converter contract used by the service:
//
//	pdfgen <html_file> <output_pdf> <orcamento_data_json>
//
// A JSON result is printed on stdout. `pdfgen health` checks the backend.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/odyssey-erp/serviceorder/internal/pdf"
	"github.com/odyssey-erp/serviceorder/report"
)

const (
	backendGotenberg = "gotenberg"
	backendChromium  = "chromium"
)

// Config is read from PDFGEN_* variables.
type Config struct {
	Backend         string        `envconfig:"BACKEND" default:"gotenberg"`
	GotenbergURL    string        `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	ChromeURL       string        `envconfig:"CHROME_URL"`
	ChromeNoSandbox bool          `envconfig:"CHROME_NO_SANDBOX" default:"false"`
	Timeout         time.Duration `envconfig:"TIMEOUT" default:"45s"`
	ValidityDays    int           `envconfig:"VALIDITY_DAYS" default:"20"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"warn"`
}

// pinger is implemented by backends that can report readiness.
type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "pdfgen: %v\n", err)
		return 1
	}
	logger := newLogger(cfg, stderr)

	backend, closeBackend, err := newBackend(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "pdfgen: %v\n", err)
		return 1
	}
	defer closeBackend()

	if len(args) == 1 && args[0] == "health" {
		return health(ctx, backend, stdout, stderr)
	}

	tool := &pdf.Tool{Backend: backend, ValidityDays: cfg.ValidityDays}
	return tool.Run(ctx, args, stdout, stderr)
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("pdfgen", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.ValidityDays < 0 {
		return Config{}, fmt.Errorf("PDFGEN_VALIDITY_DAYS must not be negative")
	}
	return cfg, nil
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newBackend(cfg Config, logger *slog.Logger) (pdf.Backend, func(), error) {
	switch cfg.Backend {
	case backendGotenberg:
		return report.NewClient(cfg.GotenbergURL, cfg.Timeout), func() {}, nil
	case backendChromium:
		b := pdf.NewChromiumBackend(pdf.ChromiumConfig{
			RemoteURL: cfg.ChromeURL,
			Timeout:   cfg.Timeout,
			NoSandbox: cfg.ChromeNoSandbox,
			Logger:    logger,
		})
		return b, func() { _ = b.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (expected %s or %s)", cfg.Backend, backendGotenberg, backendChromium)
	}
}

func health(ctx context.Context, backend pdf.Backend, stdout, stderr io.Writer) int {
	p, ok := backend.(pinger)
	if !ok {
		fmt.Fprintln(stdout, "ok")
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		fmt.Fprintf(stderr, "pdfgen: backend unhealthy: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}
