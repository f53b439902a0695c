// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/web/platform/flash"
)

// Dependencies carries the collaborators modules are built from. A nil
// Personas service puts persona routes in degraded mode.
type Dependencies struct {
	Personas *personas.Service
	Flash    *flash.Codec
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability.
type HealthReporter interface {
	Healthy() bool
}
