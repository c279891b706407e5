// Package module wires prep into the API using modkit
package module

import (
	"net/http"

	modkit "timegrid/internal/modkit"
	"timegrid/internal/modkit/httpkit"
	str "timegrid/internal/platform/strings"
	prephttp "timegrid/internal/services/api/prep/http"
	prepsvc "timegrid/internal/services/api/prep/service"
)

// Module implements the prep module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc prepsvc.Service
}

// New constructs the prep module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("prep"), modkit.WithPrefix("/prep")}, opts...)...)

	svc := prepsvc.New(deps.PG, deps.CH, FromConfig(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPrepPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		prephttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
