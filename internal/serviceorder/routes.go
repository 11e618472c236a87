package serviceorder

import "github.com/go-chi/chi/v5"

// MountRoutes registers the service order endpoints under the caller's prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/preview", h.Preview)
	r.Post("/gerar/pdf", h.GeneratePDF)
}
