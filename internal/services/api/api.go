// Package api provides the HTTP API for the application
package api

import (
	"timegrid/internal/platform/config"
	"timegrid/internal/platform/logger"
	phttp "timegrid/internal/platform/net/http"
	"timegrid/internal/platform/store"

	"timegrid/internal/modkit"
	"timegrid/internal/modkit/httpkit"
	"timegrid/internal/modkit/module"
	"timegrid/internal/modkit/swaggerkit"

	metamod "timegrid/internal/services/api/meta/module"
	prepmod "timegrid/internal/services/api/prep/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules; the stores may be nil seams when the
	// process runs without a database
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	mods := []module.Module{
		metamod.New(deps),
		prepmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
