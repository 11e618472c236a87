package serviceorder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/serviceorder/internal/pdf"
)

const samplePayload = `{
	"id": "df5fade1",
	"number": "00002/2025",
	"status": "in_progress",
	"sub_total": 23496,
	"discount": 2820,
	"discount_type": "percentage",
	"created_at": "2025-12-01T23:23:09.661Z",
	"customer": {"name": "EMPRESA ASD", "type": "company", "document": "32311223123221"},
	"items": [{"description": "REWQ", "quantity": 3, "price": 430, "total": 1290, "category": "equipment"}]
}`

func newTestRouter(t *testing.T, conv pdf.Converter, cfg HandlerConfig) (http.Handler, string) {
	t.Helper()
	svc, dir := newTestService(t, conv)
	r := chi.NewRouter()
	r.Route("/service-order", NewHandler(nil, svc, cfg).MountRoutes)
	return r, dir
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestPreviewEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &fakeConverter{}, HandlerConfig{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/service-order/preview", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "Ordem de Serviço #00002/2025 - Preview")
}

func TestPreviewEndpointRenderFailure(t *testing.T) {
	h := NewHandler(nil, NewService(Config{}), HandlerConfig{})

	rr := httptest.NewRecorder()
	h.Preview(rr, httptest.NewRequest(http.MethodGet, "/service-order/preview", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Erro ao gerar preview", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestGeneratePDFEndpointStreamsAttachment(t *testing.T) {
	conv := &fakeConverter{body: "%PDF-1.7 streamed"}
	router, dir := newTestRouter(t, conv, HandlerConfig{CacheMaxAge: 20 * time.Minute})

	req := httptest.NewRequest(http.MethodPost, "/service-order/gerar/pdf", strings.NewReader(samplePayload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="service_order_00002_2025.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "public, max-age=1200", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "17", rr.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.7 streamed", rr.Body.String())

	assert.Contains(t, conv.html, "CNPJ: 32.311.223/1232-21")
	assert.Contains(t, conv.html, "R$ 206,76")
	assert.Equal(t, "EMPRESA ASD", conv.meta.Customer)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "generated pdf must be deleted after streaming")
}

func TestGeneratePDFEndpointConverterFailure(t *testing.T) {
	conv := &fakeConverter{skipFile: true, err: &pdf.ConversionError{Kind: pdf.ErrConverterUnavailable}}
	router, _ := newTestRouter(t, conv, HandlerConfig{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/service-order/gerar/pdf", strings.NewReader(samplePayload)))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	body := decodeBody(t, rr)
	assert.Equal(t, "Erro interno do servidor", body["error"])
	assert.Equal(t, pdfFailureMessage, body["message"])
	assert.Contains(t, body["details"], "converter unavailable")
}

func TestGeneratePDFEndpointRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"malformed json", `{"id":`, "payload inválido"},
		{"negative money", `{"id":"1","total":-10}`, "total must not be negative"},
		{"bad timestamp", `{"id":"1","created_at":"ontem"}`, "invalid timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConverter{}
			router, _ := newTestRouter(t, conv, HandlerConfig{})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/service-order/gerar/pdf", strings.NewReader(tt.body)))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, "Requisição inválida", body["error"])
			assert.Contains(t, body["message"], tt.want)
			assert.Empty(t, conv.dest, "converter must not run")
		})
	}
}

func TestGeneratePDFEndpointBodyLimit(t *testing.T) {
	router, _ := newTestRouter(t, &fakeConverter{}, HandlerConfig{BodyLimit: 16})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/service-order/gerar/pdf", strings.NewReader(samplePayload)))

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["message"], "16 bytes")
}

func TestGeneratePDFEndpointRejectsGet(t *testing.T) {
	router, _ := newTestRouter(t, &fakeConverter{}, HandlerConfig{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/service-order/gerar/pdf", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
