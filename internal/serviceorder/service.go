package serviceorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/odyssey-erp/serviceorder/internal/observability"
	"github.com/odyssey-erp/serviceorder/internal/pdf"
	"github.com/odyssey-erp/serviceorder/internal/platform/files"
	"github.com/odyssey-erp/serviceorder/internal/view"
)

const pageTemplate = "pages/service_order.html"

// Render kinds reported to metrics.
const (
	RenderPreview = "preview"
	RenderPDF     = "pdf"
)

var tracer = otel.Tracer("github.com/odyssey-erp/serviceorder/internal/serviceorder")

// Renderer executes a named page template.
type Renderer interface {
	RenderString(name string, data view.TemplateData) (string, error)
}

// Config wires a Service.
type Config struct {
	Renderer  Renderer
	Converter pdf.Converter
	Formatter *Formatter
	// PDFDir receives generated files until the response is written.
	PDFDir string
	// ShowSchedule enables the service schedule block.
	ShowSchedule bool
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// Service renders orders to HTML and converts them to PDF.
type Service struct {
	renderer  Renderer
	converter pdf.Converter
	formatter *Formatter
	pdfDir    string
	schedule  bool
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService constructs a Service. The converter may be nil when only HTML
// is needed.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	formatter := cfg.Formatter
	if formatter == nil {
		formatter = NewFormatter(nil)
	}
	pdfDir := cfg.PDFDir
	if pdfDir == "" {
		pdfDir = os.TempDir()
	}
	return &Service{
		renderer:  cfg.Renderer,
		converter: cfg.Converter,
		formatter: formatter,
		pdfDir:    pdfDir,
		schedule:  cfg.ShowSchedule,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
}

// GeneratedPDF is a converted document waiting to be streamed.
type GeneratedPDF struct {
	Path     string
	Filename string
	Size     int64

	logger *slog.Logger
}

// Cleanup removes the file from disk. Failures are logged only.
func (g *GeneratedPDF) Cleanup() {
	if g == nil {
		return
	}
	files.Remove(g.logger, g.Path, "generated pdf")
}

// Render executes the page template for doc.
func (s *Service) Render(ctx context.Context, doc Document) (string, error) {
	if s == nil || s.renderer == nil {
		return "", errors.New("serviceorder: renderer not initialised")
	}
	_, span := tracer.Start(ctx, "serviceorder.render")
	defer span.End()
	doc.ShowSchedule = s.schedule && doc.Schedule.Present()
	span.SetAttributes(attribute.String("serviceorder.number", doc.Number), attribute.Int("serviceorder.items", len(doc.Items)))

	html, err := s.renderer.RenderString(pageTemplate, view.TemplateData{Title: doc.PageTitle, Data: doc})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return "", fmt.Errorf("serviceorder: render %s: %w", doc.Number, err)
	}
	return html, nil
}

// Preview renders the built-in example order.
func (s *Service) Preview(ctx context.Context) (string, error) {
	doc := SampleRequest().Document()
	doc.PageTitle = fmt.Sprintf("Ordem de Serviço #%s - Preview", doc.Number)
	html, err := s.Render(ctx, doc)
	if err != nil {
		return "", err
	}
	s.metrics.ObserveRender(RenderPreview)
	return html, nil
}

// RenderHTML renders req as it is printed to PDF.
func (s *Service) RenderHTML(ctx context.Context, req *Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: empty request", ErrInvalidPayload)
	}
	doc := req.Document()
	doc.PageTitle = "Ordem de Serviço #" + doc.Number
	return s.Render(ctx, doc)
}

// GeneratePDF renders req and converts it into a uniquely named file under
// the PDF directory. The caller owns the file and must call Cleanup.
func (s *Service) GeneratePDF(ctx context.Context, req *Request) (*GeneratedPDF, error) {
	if s == nil || s.converter == nil {
		return nil, errors.New("serviceorder: converter not initialised")
	}
	html, err := s.RenderHTML(ctx, req)
	if err != nil {
		return nil, err
	}

	fileID := SanitizeFilename(req.DisplayNumber())
	dest := filepath.Join(s.pdfDir, fmt.Sprintf("service_order_%s_%s.pdf", fileID, uuid.NewString()))

	start := time.Now()
	result, err := s.converter.Convert(ctx, html, dest, req.Metadata(s.formatter))
	s.metrics.ObserveConversion(conversionOutcome(err), time.Since(start))
	if err != nil {
		files.Remove(s.logger, dest, "partial pdf")
		return nil, err
	}
	if result != nil && result.OutputPath != "" && filepath.Clean(result.OutputPath) != dest {
		s.logger.Warn("converter reported a different output path",
			slog.String("expected", dest),
			slog.String("reported", result.OutputPath))
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("serviceorder: converter reported success but %s is missing: %w", dest, err)
	}
	s.metrics.ObserveRender(RenderPDF)
	s.logger.Info("service order pdf generated",
		slog.String("number", req.DisplayNumber()),
		slog.Int64("bytes", info.Size()),
		slog.Duration("duration", time.Since(start)))

	return &GeneratedPDF{
		Path:     dest,
		Filename: "service_order_" + fileID + ".pdf",
		Size:     info.Size(),
		logger:   s.logger,
	}, nil
}

func conversionOutcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, pdf.ErrConverterTimeout):
		return observability.OutcomeTimeout
	case errors.Is(err, pdf.ErrConverterUnavailable):
		return observability.OutcomeUnavailable
	default:
		return observability.OutcomeFailed
	}
}
