// Package catalog provides the catalog bounded context module.
package catalog

import (
	"net/http"

	"cotizador_backend/internal/catalog/handler"
	"cotizador_backend/internal/catalog/repository"
	"cotizador_backend/internal/catalog/service"
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/platform/config"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(cfg config.CatalogConfig, client *http.Client, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewSheet(cfg.GetCatalogSheetURL(), client, log)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog/search", m.handler.Search)
	ctx.V1.GET("/catalog/products", m.handler.ListProducts)

	ctx.Admin.POST("/catalog/refresh", m.handler.Refresh)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
