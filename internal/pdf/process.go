package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"

	"github.com/odyssey-erp/serviceorder/internal/platform/files"
)

const (
	defaultProcessTimeout = 60 * time.Second
	defaultConcurrency    = 4
	processWaitDelay      = 2 * time.Second
)

var tracer = otel.Tracer("github.com/odyssey-erp/serviceorder/internal/pdf")

// ProcessConfig configures the external converter invocation.
type ProcessConfig struct {
	// Command is the converter executable, resolved through PATH when relative.
	Command string
	// Args are placed before the html, output and metadata arguments.
	Args []string
	// Env entries are appended to the current environment.
	Env []string
	// TempDir stages the HTML handed to the converter.
	TempDir string
	// Timeout bounds a single conversion; the process is killed on expiry.
	Timeout time.Duration
	// MaxConcurrency bounds the number of converter processes alive at once.
	MaxConcurrency int64
	Logger         *slog.Logger
}

// ProcessConverter runs the converter contract
// `<command> [args...] <input_html> <output_pdf> <metadata_json>`.
type ProcessConverter struct {
	cfg    ProcessConfig
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// NewProcessConverter validates cfg and applies defaults.
func NewProcessConverter(cfg ProcessConfig) (*ProcessConverter, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("pdf: converter command required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProcessTimeout
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultConcurrency
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessConverter{
		cfg:    cfg,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrency),
		logger: logger,
	}, nil
}

// Convert writes html to a fresh temp file, runs the converter and waits for
// it. The temp file is removed on every path.
func (c *ProcessConverter) Convert(ctx context.Context, html, dest string, meta Metadata) (*Result, error) {
	if c == nil {
		return nil, errors.New("pdf: converter not initialised")
	}
	ctx, span := tracer.Start(ctx, "pdf.convert")
	defer span.End()
	span.SetAttributes(attribute.String("pdf.command", c.cfg.Command), attribute.String("pdf.output", dest))

	result, err := c.convert(ctx, html, dest, meta)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "conversion failed")
	}
	return result, err
}

func (c *ProcessConverter) convert(ctx context.Context, html, dest string, meta Metadata) (*Result, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("pdf: wait for converter slot: %w", err)
	}
	defer c.sem.Release(1)

	tempPath := filepath.Join(c.cfg.TempDir, "temp_"+uuid.NewString()+".html")
	defer files.Remove(c.logger, tempPath, "temp html")

	if err := os.WriteFile(tempPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("pdf: write temp html: %w", err)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("pdf: encode metadata: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	args := append(slices.Clone(c.cfg.Args), tempPath, dest, string(metaJSON))
	cmd := exec.CommandContext(runCtx, c.cfg.Command, args...)
	if len(c.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), c.cfg.Env...)
	}
	cmd.WaitDelay = processWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	if runErr != nil {
		convErr := c.classify(runCtx, runErr, stdout.String(), stderr.String())
		c.logger.Error("pdf converter failed",
			slog.String("command", c.cfg.Command),
			slog.String("temp_html", tempPath),
			slog.String("stderr", stderr.String()),
			slog.String("stdout", stdout.String()),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", runErr))
		return nil, convErr
	}

	result := parseResult(stdout.Bytes(), dest)
	if !result.Success {
		return result, &ConversionError{
			Kind:   ErrConverterFailed,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Cause:  errors.New(firstNonEmpty(result.Message, result.Error, "converter reported failure")),
		}
	}
	c.logger.Debug("pdf converted",
		slog.String("output", result.OutputPath),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (c *ProcessConverter) classify(ctx context.Context, err error, stdout, stderr string) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &ConversionError{
			Kind:   ErrConverterTimeout,
			Stdout: stdout,
			Stderr: stderr,
			Cause:  fmt.Errorf("killed after %v", c.cfg.Timeout),
		}
	case errors.Is(ctx.Err(), context.Canceled):
		return &ConversionError{Kind: ErrConverterFailed, Stdout: stdout, Stderr: stderr, Cause: ctx.Err()}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ConversionError{
			Kind:     ErrConverterFailed,
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}
	return &ConversionError{Kind: ErrConverterUnavailable, Stdout: stdout, Stderr: stderr, Cause: err}
}

// parseResult decodes the converter's stdout; output that is not a JSON
// object counts as success at dest.
func parseResult(stdout []byte, dest string) *Result {
	var result Result
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &result); err != nil {
		return &Result{Success: true, OutputPath: dest}
	}
	if result.Success && result.OutputPath == "" {
		result.OutputPath = dest
	}
	return &result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ Converter = (*ProcessConverter)(nil)
