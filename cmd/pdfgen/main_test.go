package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/serviceorder/internal/pdf"
)

func fakeGotenberg(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/forms/chromium/convert/html":
			require.NoError(t, r.ParseMultipartForm(10<<20))
			file, _, err := r.FormFile("files")
			require.NoError(t, err)
			defer file.Close()
			body, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Contains(t, string(body), `data-numero="42"`)
			_, _ = w.Write([]byte("%PDF-1.7 gotenberg"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunConvertsThroughGotenberg(t *testing.T) {
	srv := fakeGotenberg(t)
	t.Setenv("PDFGEN_GOTENBERG_URL", srv.URL)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.html")
	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(in, []byte("<!DOCTYPE html><html lang=\"pt-BR\"><body>ok</body></html>"), 0o644))

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	code := run([]string{in, out, `{"numero":"42","data":"01/12/2025","empresa":"ACME","cliente":"Fulano"}`}, stdout, stderr)
	require.Equal(t, 0, code, stderr.String())

	var result pdf.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, out, result.OutputPath)
	assert.Equal(t, "PDF gerado com sucesso: "+out, result.Message)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 gotenberg", string(data))
}

func TestRunUsage(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, run([]string{"only-one"}, stdout, stderr))
	assert.Contains(t, stdout.String(), "Uso: pdfgen")
}

func TestRunHealth(t *testing.T) {
	srv := fakeGotenberg(t)
	t.Setenv("PDFGEN_GOTENBERG_URL", srv.URL)

	stdout := new(bytes.Buffer)
	assert.Equal(t, 0, run([]string{"health"}, stdout, new(bytes.Buffer)))
	assert.Equal(t, "ok\n", stdout.String())

	t.Setenv("PDFGEN_GOTENBERG_URL", "http://127.0.0.1:1")
	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, run([]string{"health"}, new(bytes.Buffer), stderr))
	assert.Contains(t, stderr.String(), "backend unhealthy")
}

func TestRunRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PDFGEN_BACKEND", "weasyprint")
	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, run([]string{"a", "b", "{}"}, new(bytes.Buffer), stderr))
	assert.Contains(t, stderr.String(), `unknown backend "weasyprint"`)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, backendGotenberg, cfg.Backend)
	assert.Equal(t, 20, cfg.ValidityDays)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.GotenbergURL)

	t.Setenv("PDFGEN_VALIDITY_DAYS", "-1")
	_, err = loadConfig()
	assert.Error(t, err)
}
