package modules

import (
	"github.com/louisbranch/agenda/internal/services/web/modules/personas"
	"github.com/louisbranch/agenda/internal/services/web/platform/modulehandler"
)

// DefaultModules returns the stable web modules built from deps. A nil
// persona service mounts persona routes in degraded mode.
func DefaultModules(deps Dependencies) []Module {
	base := modulehandler.NewBase(deps.Flash)
	return []Module{
		personas.NewWithGateway(personas.NewCoreGateway(deps.Personas), base),
	}
}
