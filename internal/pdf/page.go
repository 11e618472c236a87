package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"
)

const mmPerInch = 25.4

// PageOptions describes paper geometry in inches.
type PageOptions struct {
	PaperWidth   float64
	PaperHeight  float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	// HeaderHTML and FooterHTML are repeated on every page when set.
	HeaderHTML string
	FooterHTML string
}

// A4Page returns A4 portrait geometry with 10mm margins on every side.
func A4Page() PageOptions {
	margin := MillimetresToInches(10)
	return PageOptions{
		PaperWidth:   MillimetresToInches(210),
		PaperHeight:  MillimetresToInches(297),
		MarginTop:    margin,
		MarginRight:  margin,
		MarginBottom: margin,
		MarginLeft:   margin,
	}
}

// MillimetresToInches converts a length for the print engines, which take inches.
func MillimetresToInches(mm float64) float64 {
	return mm / mmPerInch
}

// Backend renders a full HTML document into PDF bytes.
type Backend interface {
	RenderPDF(ctx context.Context, html string, opts PageOptions) ([]byte, error)
}

// Decoration holds the values printed around every page.
type Decoration struct {
	Number     string
	Date       string
	Company    string
	Customer   string
	ValidUntil string
}

// NewDecoration fills missing metadata with the converter defaults. The
// validity date is now plus validityDays.
func NewDecoration(meta Metadata, now time.Time, validityDays int) Decoration {
	d := Decoration{
		Number:     meta.Number,
		Date:       meta.Date,
		Company:    meta.Company,
		Customer:   meta.Customer,
		ValidUntil: now.AddDate(0, 0, validityDays).Format("02/01/2006"),
	}
	if d.Number == "" {
		d.Number = "N/A"
	}
	if d.Date == "" {
		d.Date = now.Format("02/01/2006")
	}
	if d.Company == "" {
		d.Company = "Empresa XYZ Ltda."
	}
	if d.Customer == "" {
		d.Customer = "Cliente"
	}
	return d
}

// Decorate adds the data-* attributes to the first <html tag of doc.
// Documents without one are returned unchanged.
func Decorate(doc string, d Decoration) string {
	idx := strings.Index(doc, "<html")
	if idx < 0 {
		return doc
	}
	attrs := fmt.Sprintf(` data-numero="%s" data-data="%s" data-empresa="%s" data-validade="%s"`,
		html.EscapeString(d.Number),
		html.EscapeString(d.Date),
		html.EscapeString(d.Company),
		html.EscapeString(d.ValidUntil))
	insert := idx + len("<html")
	return doc[:insert] + attrs + doc[insert:]
}

// Chromium substitutes the pageNumber and totalPages classes in header and
// footer templates.
var (
	headerTemplate = template.Must(template.New("header").Parse(`<html><head><style>` +
		`body{margin:0;font-family:Arial,sans-serif;}` +
		`.bar{display:flex;justify-content:space-between;width:100%;padding:0 10mm;font-size:10pt;color:#666;box-sizing:border-box;}` +
		`</style></head><body><div class="bar">` +
		`<span>Orçamento #{{.Number}}</span><span>Data: {{.Date}}</span>` +
		`</div></body></html>`))
	footerTemplate = template.Must(template.New("footer").Parse(`<html><head><style>` +
		`body{margin:0;font-family:Arial,sans-serif;}` +
		`.bar{display:flex;justify-content:space-between;width:100%;padding:0 10mm;font-size:9pt;color:#888;box-sizing:border-box;}` +
		`</style></head><body><div class="bar">` +
		`<span>{{.Company}}</span>` +
		`<span>Página <span class="pageNumber"></span> de <span class="totalPages"></span></span>` +
		`<span>Válido até: {{.ValidUntil}}</span>` +
		`</div></body></html>`))
)

// HeaderHTML renders the per-page header.
func HeaderHTML(d Decoration) (string, error) {
	return execute(headerTemplate, d)
}

// FooterHTML renders the per-page footer.
func FooterHTML(d Decoration) (string, error) {
	return execute(footerTemplate, d)
}

func execute(tpl *template.Template, d Decoration) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("pdf: render %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
