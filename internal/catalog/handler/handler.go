package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cotizador_backend/internal/catalog/service"
	"cotizador_backend/internal/catalog/transport"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/validator"
)

// Handler handles HTTP requests for catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidRequest = "invalid request"

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Search resolves a free-text query against the catalog.
// GET /api/v1/catalog/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	results := h.svc.Search(c.Request.Context(), req.Query, req.Category)
	httpkit.OK(c, transport.ToProductListResponse(results))
}

// ListProducts returns the full enabled catalog.
// GET /api/v1/catalog/products
func (h *Handler) ListProducts(c *gin.Context) {
	products := h.svc.ListProducts(c.Request.Context())
	httpkit.OK(c, transport.ToProductListResponse(products))
}

// Refresh drops the catalog cache so the next access re-fetches the sheet.
// POST /api/v1/admin/catalog/refresh
func (h *Handler) Refresh(c *gin.Context) {
	h.svc.Refresh()
	httpkit.OK(c, gin.H{"status": "ok"})
}
