package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cotizador_backend/internal/chat/service"
	"cotizador_backend/internal/chat/transport"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/validator"
)

// Handler handles HTTP requests for chat sessions and their quotes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidRequest = "invalid request"

// New creates a new chat handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// StartSession opens a new conversation.
// POST /api/v1/chat/sessions
func (h *Handler) StartSession(c *gin.Context) {
	sess, err := h.svc.StartSession(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToSessionResponse(sess))
}

// GetSession returns the full conversation state.
// GET /api/v1/chat/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.svc.Session(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSessionResponse(sess))
}

// SendMessage runs one conversation turn.
// POST /api/v1/chat/sessions/:id/messages
func (h *Handler) SendMessage(c *gin.Context) {
	var req transport.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	sess, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"), req.Message)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToMessageResponse(sess))
}

// GetQuote returns the session's current quote.
// GET /api/v1/chat/sessions/:id/quote
func (h *Handler) GetQuote(c *gin.Context) {
	q, err := h.svc.Quote(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(q))
}

// UpdateItem changes one line's quantity directly from the quote panel.
// PUT /api/v1/chat/sessions/:id/quote/items/:code
func (h *Handler) UpdateItem(c *gin.Context) {
	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	q, err := h.svc.SetItemQuantity(c.Request.Context(), c.Param("id"), c.Param("code"), req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(q))
}

// RemoveItem drops one line from the quote.
// DELETE /api/v1/chat/sessions/:id/quote/items/:code
func (h *Handler) RemoveItem(c *gin.Context) {
	q, err := h.svc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("code"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(q))
}
