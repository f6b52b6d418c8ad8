package api

import (
	"context"
	"net/http"

	service "github.com/askoki/orijent-soccer-analytics/internal/app"
)

// CatalogDependencies defines the catalog and refresh operations.
type CatalogDependencies interface {
	Catalog(ctx context.Context) (service.Catalog, error)
	Refresh(ctx context.Context) error
}

// CatalogHandler handles catalog and refresh requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_catalog"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := h.deps.Catalog(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleRefresh handles POST /refresh requests.
func (h *CatalogHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Refresh(r.Context()); err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrUnavailable, err))
		return
	}
	c, err := h.deps.Catalog(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
