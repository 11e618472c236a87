// Package cli implements the offline render and pdf subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/odyssey-erp/serviceorder/internal/serviceorder"
)

// Exit codes shared by the subcommands.
const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitConverter = 2
)

// OrderCLI renders and converts service orders without the HTTP server.
type OrderCLI struct {
	service *serviceorder.Service
}

// NewOrderCLI constructs the helper around a configured service.
func NewOrderCLI(service *serviceorder.Service) (*OrderCLI, error) {
	if service == nil {
		return nil, errors.New("order cli: service required")
	}
	return &OrderCLI{service: service}, nil
}

// InputOptions selects the order to work on.
type InputOptions struct {
	// Input is a JSON file, or "-" for stdin.
	Input string
	// Example uses the built-in preview order instead of Input.
	Example bool
	Stdin   io.Reader
}

// RenderOptions defines available flags for the render command.
type RenderOptions struct {
	InputOptions
	// Output is the HTML destination; empty or "-" writes to Stdout.
	Output string
	Stdout io.Writer
	Stderr io.Writer
}

// PDFOptions defines available flags for the pdf command.
type PDFOptions struct {
	InputOptions
	// Output defaults to the download name in the working directory.
	Output     string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// PDFSummary is printed by the pdf command with -json.
type PDFSummary struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RenderCommand renders one order to HTML.
func (c *OrderCLI) RenderCommand(ctx context.Context, opts RenderOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var (
		html string
		err  error
	)
	if opts.Example {
		html, err = c.service.Preview(ctx)
	} else {
		var req *serviceorder.Request
		req, err = loadRequest(opts.InputOptions)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "render: %v\n", err)
			return ExitUsage
		}
		html, err = c.service.RenderHTML(ctx, req)
	}
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "render: %v\n", err)
		return ExitUsage
	}

	if opts.Output == "" || opts.Output == "-" {
		_, _ = io.WriteString(opts.Stdout, html)
		return ExitOK
	}
	if err := os.WriteFile(opts.Output, []byte(html), 0o644); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "render: %v\n", err)
		return ExitUsage
	}
	_, _ = fmt.Fprintf(opts.Stdout, "wrote %s\n", opts.Output)
	return ExitOK
}

// PDFCommand renders one order and converts it through the configured
// converter.
func (c *OrderCLI) PDFCommand(ctx context.Context, opts PDFOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	req, err := loadRequest(opts.InputOptions)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "pdf: %v\n", err)
		return ExitUsage
	}

	generated, err := c.service.GeneratePDF(ctx, req)
	if err != nil {
		return c.reportPDF(opts, PDFSummary{Error: err.Error()}, ExitConverter)
	}
	defer generated.Cleanup()

	output := opts.Output
	if output == "" {
		output = generated.Filename
	}
	if err := copyFile(generated.Path, output); err != nil {
		return c.reportPDF(opts, PDFSummary{Error: err.Error()}, ExitUsage)
	}
	return c.reportPDF(opts, PDFSummary{Success: true, OutputPath: output, Bytes: generated.Size}, ExitOK)
}

func (c *OrderCLI) reportPDF(opts PDFOptions, summary PDFSummary, code int) int {
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "pdf: encode json: %v\n", err)
			return ExitUsage
		}
		return code
	}
	if summary.Success {
		_, _ = fmt.Fprintf(opts.Stdout, "wrote %s (%d bytes)\n", summary.OutputPath, summary.Bytes)
	} else {
		_, _ = fmt.Fprintf(opts.Stderr, "pdf: %s\n", summary.Error)
	}
	return code
}

func loadRequest(opts InputOptions) (*serviceorder.Request, error) {
	if opts.Example {
		return serviceorder.SampleRequest(), nil
	}
	switch opts.Input {
	case "":
		return nil, errors.New("-in is required unless -example is set")
	case "-":
		if opts.Stdin == nil {
			opts.Stdin = os.Stdin
		}
		return serviceorder.DecodeRequest(opts.Stdin)
	}
	f, err := os.Open(opts.Input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return serviceorder.DecodeRequest(f)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	return out.Close()
}
