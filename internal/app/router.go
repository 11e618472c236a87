package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/serviceorder/internal/observability"
	"github.com/odyssey-erp/serviceorder/internal/platform/httpx"
	"github.com/odyssey-erp/serviceorder/internal/serviceorder"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	ServiceOrderHandler *serviceorder.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with the service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.NotFound)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, apiIndex)
	})

	if params.ServiceOrderHandler != nil {
		r.Route("/service-order", func(r chi.Router) {
			r.Use(RateLimiter(params.Config))
			params.ServiceOrderHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil && (params.Config == nil || params.Config.MetricsEnabled) {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var apiIndex = map[string]any{
	"service": "serviceorder",
	"endpoints": []endpoint{
		{http.MethodGet, "/service-order/preview", "Pré-visualização HTML da ordem de serviço de exemplo"},
		{http.MethodPost, "/service-order/gerar/pdf", "Gera o PDF de uma ordem de serviço enviada em JSON"},
		{http.MethodGet, "/healthz", "Verificação de saúde"},
	},
}
