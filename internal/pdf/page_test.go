package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecorationDefaults(t *testing.T) {
	now := time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC)

	d := NewDecoration(Metadata{}, now, 20)
	assert.Equal(t, "N/A", d.Number)
	assert.Equal(t, "01/12/2025", d.Date)
	assert.Equal(t, "Empresa XYZ Ltda.", d.Company)
	assert.Equal(t, "Cliente", d.Customer)
	assert.Equal(t, "21/12/2025", d.ValidUntil)

	d = NewDecoration(testMeta, now, 30)
	assert.Equal(t, "00002/2025", d.Number)
	assert.Equal(t, "Sua Empresa Ltda", d.Company)
	assert.Equal(t, "31/12/2025", d.ValidUntil)
}

func TestDecorateFirstHTMLTagOnly(t *testing.T) {
	deco := Decoration{Number: "7", Date: "01/12/2025", Company: `A & "B"`, ValidUntil: "21/12/2025"}
	doc := `<!DOCTYPE html><html lang="pt-BR"><body><pre>&lt;html</pre><html></body></html>`

	got := Decorate(doc, deco)
	assert.Equal(t,
		`<!DOCTYPE html><html data-numero="7" data-data="01/12/2025" data-empresa="A &amp; &#34;B&#34;" data-validade="21/12/2025" lang="pt-BR"><body><pre>&lt;html</pre><html></body></html>`,
		got)
	assert.Equal(t, "<p>fragment</p>", Decorate("<p>fragment</p>", deco))
}

func TestHeaderFooterHTML(t *testing.T) {
	deco := Decoration{Number: "00002/2025", Date: "01/12/2025", Company: "<ACME>", ValidUntil: "21/12/2025"}

	header, err := HeaderHTML(deco)
	require.NoError(t, err)
	assert.Contains(t, header, "Orçamento #00002/2025")
	assert.Contains(t, header, "Data: 01/12/2025")

	footer, err := FooterHTML(deco)
	require.NoError(t, err)
	assert.Contains(t, footer, "&lt;ACME&gt;")
	assert.Contains(t, footer, `Página <span class="pageNumber"></span> de <span class="totalPages"></span>`)
	assert.Contains(t, footer, "Válido até: 21/12/2025")
}

func TestA4Page(t *testing.T) {
	page := A4Page()
	assert.InDelta(t, 8.27, page.PaperWidth, 0.01)
	assert.InDelta(t, 11.69, page.PaperHeight, 0.01)
	assert.InDelta(t, 0.3937, page.MarginTop, 0.001)
	assert.Equal(t, page.MarginTop, page.MarginLeft)
}

func TestChromiumPrintParams(t *testing.T) {
	opts := A4Page()
	params := printParams(opts)
	assert.True(t, params.PrintBackground)
	assert.False(t, params.DisplayHeaderFooter)
	assert.Equal(t, opts.PaperWidth, params.PaperWidth)
	assert.Equal(t, opts.MarginBottom, params.MarginBottom)

	opts.HeaderHTML = "<span>h</span>"
	opts.FooterHTML = "<span>f</span>"
	params = printParams(opts)
	assert.True(t, params.DisplayHeaderFooter)
	assert.Equal(t, "<span>h</span>", params.HeaderTemplate)
	assert.Equal(t, "<span>f</span>", params.FooterTemplate)
}
