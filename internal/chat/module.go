// Package chat provides the conversation bounded context module.
package chat

import (
	"cotizador_backend/internal/chat/agent"
	"cotizador_backend/internal/chat/handler"
	"cotizador_backend/internal/chat/service"
	"cotizador_backend/internal/chat/session"
	catalogsvc "cotizador_backend/internal/catalog/service"
	"cotizador_backend/internal/events"
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/internal/orders"
	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"
)

// Module is the chat bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the chat module.
func NewModule(
	store session.Store,
	model agent.Generator,
	catalog *catalogsvc.Service,
	orderClient orders.Creator,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	ag := agent.New(model, val, log)
	resolver := quote.NewResolver(catalog, log)
	svc := service.New(store, ag, catalog, resolver, orderClient, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts chat routes on the provided router context. Message
// routes carry the per-IP rate limiter because each one costs a model call.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	sessions := ctx.V1.Group("/chat/sessions")

	sessions.POST("", m.handler.StartSession)
	sessions.GET("/:id", m.handler.GetSession)
	sessions.POST("/:id/messages", ctx.ChatRateLimiter.RateLimit(), m.handler.SendMessage)

	sessions.GET("/:id/quote", m.handler.GetQuote)
	sessions.PUT("/:id/quote/items/:code", m.handler.UpdateItem)
	sessions.DELETE("/:id/quote/items/:code", m.handler.RemoveItem)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
