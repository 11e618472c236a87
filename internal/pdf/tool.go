package pdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const usage = "Uso: pdfgen <html_file> <output_pdf> <orcamento_data_json>"

// Tool implements the converter side of the process contract on top of a
// Backend. cmd/pdfgen is a thin wrapper around it.
type Tool struct {
	Backend      Backend
	ValidityDays int
	Now          func() time.Time
}

// Run executes one conversion and returns the process exit code. The JSON
// result is always written to stdout unless the arguments are incomplete.
func (t *Tool) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 3 {
		fmt.Fprintln(stderr, usage)
		fmt.Fprintln(stdout, usage)
		return 1
	}
	result := t.convert(ctx, args[0], args[1], args[2])
	if err := json.NewEncoder(stdout).Encode(result); err != nil {
		fmt.Fprintf(stderr, "pdfgen: write result: %v\n", err)
		return 1
	}
	if !result.Success {
		fmt.Fprintln(stderr, result.Message)
		return 1
	}
	return 0
}

func (t *Tool) convert(ctx context.Context, htmlPath, outPath, rawMeta string) Result {
	if err := t.generate(ctx, htmlPath, outPath, rawMeta); err != nil {
		return Result{
			Success: false,
			Error:   err.Error(),
			Message: "Erro ao gerar PDF: " + err.Error(),
		}
	}
	return Result{
		Success:    true,
		OutputPath: outPath,
		Message:    "PDF gerado com sucesso: " + outPath,
	}
}

func (t *Tool) generate(ctx context.Context, htmlPath, outPath, rawMeta string) error {
	if t == nil || t.Backend == nil {
		return errors.New("pdf backend not configured")
	}
	doc, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}
	meta, err := ParseMetadata(rawMeta)
	if err != nil {
		return err
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	deco := NewDecoration(meta, now(), t.ValidityDays)

	opts := A4Page()
	if opts.HeaderHTML, err = HeaderHTML(deco); err != nil {
		return err
	}
	if opts.FooterHTML, err = FooterHTML(deco); err != nil {
		return err
	}

	data, err := t.Backend.RenderPDF(ctx, Decorate(string(doc), deco), opts)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if len(data) == 0 {
		return errors.New("render pdf: empty document")
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
