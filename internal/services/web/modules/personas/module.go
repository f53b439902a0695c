// Package personas serves the persona list, create, detail, edit and delete
// pages.
package personas

import (
	"net/http"

	"github.com/louisbranch/agenda/internal/services/web/module"
	"github.com/louisbranch/agenda/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/agenda/internal/services/web/routepath"
)

// Module provides the persona contact-book routes.
type Module struct {
	gateway PersonaGateway
	base    modulehandler.Base
}

// New returns a personas module with zero-value dependencies (degraded mode).
func New() Module {
	return Module{}
}

// NewWithGateway returns a personas module with explicit gateway and handler dependencies.
func NewWithGateway(gateway PersonaGateway, base modulehandler.Base) Module {
	return Module{gateway: gateway, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "personas" }

// Healthy reports whether the personas module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires persona route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway)
	h := newHandlers(svc, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
