package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/serviceorder/internal/observability"
	"github.com/odyssey-erp/serviceorder/internal/serviceorder"
	"github.com/odyssey-erp/serviceorder/internal/view"
)

func newTestRouter(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	formatter := serviceorder.NewFormatter(cfg.Location())
	engine, err := view.NewEngine(formatter.Funcs())
	require.NoError(t, err)
	metrics := observability.NewMetrics()
	svc := serviceorder.NewService(serviceorder.Config{Renderer: engine, Formatter: formatter, Metrics: metrics})
	return NewRouter(RouterParams{
		Config:              cfg,
		ServiceOrderHandler: serviceorder.NewHandler(nil, svc, serviceorder.HandlerConfig{}),
		Metrics:             metrics,
	})
}

func testConfig() *Config {
	return &Config{
		RenderTimezone:     "America/Sao_Paulo",
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
	}
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestRouterHealthz(t *testing.T) {
	rr := serve(newTestRouter(t, testConfig()), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouterUnknownRouteReturnsEnvelope(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/service-order/exemplo"},
		{http.MethodPost, "/healthz"},
	} {
		rr := serve(router, tc.method, tc.path)
		require.Equal(t, http.StatusNotFound, rr.Code, tc.path)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Endpoint não encontrado", body["error"])
		assert.Equal(t, "Verifique a documentação da API em /", body["message"])
	}
}

func TestRouterIndexListsEndpoints(t *testing.T) {
	rr := serve(newTestRouter(t, testConfig()), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/service-order/gerar/pdf")
}

func TestRouterPreviewCarriesSecurityHeaders(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/service-order/preview", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ordem de Serviço #00002/2025 - Preview")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, contentSecurityPolicy, rr.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouterAllowsCredentialsForListedOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.CORSAllowedOrigins = []string{"https://app.example.com"}
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/service-order/preview", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouterRateLimitsServiceOrderRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequests = 1
	router := newTestRouter(t, cfg)

	first := serve(router, http.MethodGet, "/service-order/preview")
	require.Equal(t, http.StatusOK, first.Code)

	second := serve(router, http.MethodGet, "/service-order/preview")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Muitas requisições")

	// Health checks are outside the limited group.
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/healthz").Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())
	serve(router, http.MethodGet, "/service-order/preview")

	rr := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `serviceorder_renders_total{kind="preview"} 1`)

	cfg := testConfig()
	cfg.MetricsEnabled = false
	assert.Equal(t, http.StatusNotFound, serve(newTestRouter(t, cfg), http.MethodGet, "/metrics").Code)
}

func TestRecovererReturnsJSON(t *testing.T) {
	h := Recoverer(NewLogger(nil))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	rr := serve(h, http.MethodGet, "/")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Erro interno do servidor","message":"Algo deu errado!"}`, rr.Body.String())
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	h := Recoverer(NewLogger(nil))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(h, http.MethodGet, "/")
	})
}
