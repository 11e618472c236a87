package serviceorder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/serviceorder/internal/observability"
	"github.com/odyssey-erp/serviceorder/internal/pdf"
)

type fakeConverter struct {
	err      error
	skipFile bool
	body     string
	reported string

	html string
	dest string
	meta pdf.Metadata
}

func (f *fakeConverter) Convert(_ context.Context, html, dest string, meta pdf.Metadata) (*pdf.Result, error) {
	f.html, f.dest, f.meta = html, dest, meta
	if !f.skipFile {
		body := f.body
		if body == "" {
			body = "%PDF-1.4 fake"
		}
		if err := os.WriteFile(dest, []byte(body), 0o644); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := dest
	if f.reported != "" {
		out = f.reported
	}
	return &pdf.Result{Success: true, OutputPath: out}, nil
}

func newTestService(t *testing.T, conv pdf.Converter) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return NewService(Config{
		Renderer:  newTestEngine(t),
		Converter: conv,
		Formatter: NewFormatter(testLocation),
		PDFDir:    dir,
		Metrics:   observability.NewMetrics(),
	}), dir
}

func TestGeneratePDFWritesUniqueFile(t *testing.T) {
	conv := &fakeConverter{}
	svc, dir := newTestService(t, conv)

	generated, err := svc.GeneratePDF(context.Background(), SampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "service_order_00002_2025.pdf", generated.Filename)
	assert.Equal(t, dir, filepath.Dir(generated.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(generated.Path), "service_order_00002_2025_"))
	assert.Equal(t, int64(len("%PDF-1.4 fake")), generated.Size)
	assert.Contains(t, conv.html, "<title>Ordem de Serviço #00002/2025</title>")
	assert.Equal(t, pdf.Metadata{Number: "00002/2025", Date: "01/12/2025", Company: "Sua Empresa Ltda", Customer: "EMPRESA ASD"}, conv.meta)

	second, err := svc.GeneratePDF(context.Background(), SampleRequest())
	require.NoError(t, err)
	assert.NotEqual(t, generated.Path, second.Path)

	generated.Cleanup()
	second.Cleanup()
	_, err = os.Stat(generated.Path)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratePDFRemovesPartialFileOnFailure(t *testing.T) {
	conv := &fakeConverter{err: &pdf.ConversionError{Kind: pdf.ErrConverterFailed, ExitCode: 1, Stderr: "boom"}}
	svc, dir := newTestService(t, conv)

	generated, err := svc.GeneratePDF(context.Background(), SampleRequest())
	require.Error(t, err)
	assert.Nil(t, generated)
	assert.True(t, errors.Is(err, pdf.ErrConverterFailed))
	assert.Contains(t, err.Error(), "boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratePDFMissingOutput(t *testing.T) {
	svc, _ := newTestService(t, &fakeConverter{skipFile: true})

	_, err := svc.GeneratePDF(context.Background(), &Request{Order: Order{ID: "a/b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is missing")
}

func TestGeneratePDFIgnoresReportedOutputPath(t *testing.T) {
	other := filepath.Join(t.TempDir(), "important.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0o644))

	conv := &fakeConverter{reported: other}
	svc, dir := newTestService(t, conv)

	generated, err := svc.GeneratePDF(context.Background(), SampleRequest())
	require.NoError(t, err)
	assert.Equal(t, conv.dest, generated.Path)
	assert.Equal(t, dir, filepath.Dir(generated.Path))

	generated.Cleanup()
	data, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratePDFWithoutConverter(t *testing.T) {
	svc := NewService(Config{Renderer: newTestEngine(t)})
	_, err := svc.GeneratePDF(context.Background(), SampleRequest())
	require.Error(t, err)
}

func TestRenderHTMLRejectsNilRequest(t *testing.T) {
	svc := NewService(Config{Renderer: newTestEngine(t)})
	_, err := svc.RenderHTML(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestConversionOutcome(t *testing.T) {
	assert.Equal(t, observability.OutcomeSuccess, conversionOutcome(nil))
	assert.Equal(t, observability.OutcomeTimeout, conversionOutcome(&pdf.ConversionError{Kind: pdf.ErrConverterTimeout}))
	assert.Equal(t, observability.OutcomeUnavailable, conversionOutcome(&pdf.ConversionError{Kind: pdf.ErrConverterUnavailable}))
	assert.Equal(t, observability.OutcomeFailed, conversionOutcome(errors.New("other")))
}
