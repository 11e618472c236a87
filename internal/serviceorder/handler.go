package serviceorder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/serviceorder/internal/platform/httpx"
)

const (
	defaultBodyLimit   = 10 << 20
	defaultCacheMaxAge = 20 * time.Minute

	pdfFailureMessage = "Não foi possível gerar o PDF. Verifique se o conversor de PDF está instalado."
)

// HandlerConfig tunes the HTTP surface.
type HandlerConfig struct {
	BodyLimit   int64
	CacheMaxAge time.Duration
}

// Handler serves the preview and PDF endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	cfg     HandlerConfig
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, cfg HandlerConfig) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = defaultBodyLimit
	}
	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = defaultCacheMaxAge
	}
	return &Handler{logger: logger, service: service, cfg: cfg}
}

// Preview renders the example order as HTML.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	html, err := h.service.Preview(r.Context())
	if err != nil {
		h.logger.Error("render preview", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, httpx.Envelope{Error: "Erro ao gerar preview", Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// GeneratePDF converts the posted order and streams it as an attachment. The
// file is removed once the body has been written.
func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req Request
	err := httpx.DecodeJSON(w, r, h.cfg.BodyLimit, &req)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	} else {
		err = ValidateRequest(&req)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Error(w, http.StatusRequestEntityTooLarge, httpx.Envelope{
				Error:   "Requisição inválida",
				Message: fmt.Sprintf("corpo da requisição excede %d bytes", tooLarge.Limit),
			})
			return
		}
		h.logger.Warn("invalid pdf request", slog.String("request_id", reqID), slog.Any("error", err))
		httpx.BadRequest(w, err)
		return
	}

	generated, err := h.service.GeneratePDF(r.Context(), &req)
	if err != nil {
		h.logger.Error("generate pdf",
			slog.String("request_id", reqID),
			slog.String("number", req.DisplayNumber()),
			slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, httpx.Envelope{
			Error:   "Erro interno do servidor",
			Message: pdfFailureMessage,
			Details: err.Error(),
		})
		return
	}
	defer generated.Cleanup()

	f, err := os.Open(generated.Path)
	if err != nil {
		h.logger.Error("open generated pdf", slog.String("request_id", reqID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, httpx.Envelope{
			Error:   "Erro interno do servidor",
			Message: pdfFailureMessage,
			Details: err.Error(),
		})
		return
	}
	defer func() {
		_ = f.Close()
	}()

	header := w.Header()
	header.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(h.cfg.CacheMaxAge/time.Second)))
	header.Set("Content-Type", "application/pdf")
	header.Set("Content-Disposition", `attachment; filename="`+generated.Filename+`"`)
	header.Set("Content-Length", strconv.FormatInt(generated.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("stream pdf", slog.String("request_id", reqID), slog.Any("error", err))
	}
}
