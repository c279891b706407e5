// Package module implements the pipeline module
package module

import (
	"net/http"

	"timegrid/internal/modkit"
	"timegrid/internal/modkit/httpkit"
	"timegrid/internal/services/pipeline/domain"
	"timegrid/internal/services/pipeline/service"
)

// Ports exposed by the pipeline module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
}

// New constructs a pipeline module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("pipeline"),
	}, opts...)...)

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.MaxPoints != 0 {
		cfg.MaxPoints = overrides.MaxPoints
	}
	if overrides.Zone != "" {
		cfg.Zone = overrides.Zone
	}
	// bool override wins (defaults false if caller didn't set)
	cfg.DryRun = overrides.DryRun

	runner := service.New(deps.PG, deps.CH, service.Config{
		Workers:   cfg.Workers,
		MaxPoints: cfg.MaxPoints,
		Zone:      cfg.Zone,
		DryRun:    cfg.DryRun,
	})

	m := &Module{deps: deps, name: b.Name}
	m.ports = Ports{Runner: runner}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
