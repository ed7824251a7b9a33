// Package compose wires the component runtime into a ready-to-use engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/compose"
//
// Usage:
//
//	catalog := component.NewCatalog()
//	catalog.Register("card", &component.Definition{
//	    Template: component.HTML(`<h2 data-text="title"></h2>`),
//	})
//
//	engine := compose.New(compose.WithRegistry(catalog))
//	html, err := engine.Render(ctx, "card", map[string]any{"title": "Hello"})
//
// An Engine is safe for concurrent use. Each live tree gets its own Session,
// which owns the handler set and the dispatcher that asynchronous loads
// deliver through.
package compose

import (
	"log/slog"

	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/component"
)

// =============================================================================
// Engine
// =============================================================================

// Engine holds the configuration shared by every session: where components
// come from, who observes their lifecycle, and which extra handlers are
// available in templates.
type Engine struct {
	registry component.Registry
	observer component.Observer
	logger   *slog.Logger
	prefix   string
	ids      component.IDSource
	handlers map[string]binding.Spec
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the component registry. Default: an empty catalog.
func WithRegistry(reg component.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.registry = reg
		}
	}
}

// WithObserver sets the lifecycle observer for every mount.
func WithObserver(o component.Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAttrPrefix sets the attribute prefix bindings are read from.
// Default: "data-".
func WithAttrPrefix(prefix string) Option {
	return func(e *Engine) {
		if prefix != "" {
			e.prefix = prefix
		}
	}
}

// WithIDs sets the generation id source. Default: component.NextGeneration.
func WithIDs(ids component.IDSource) Option {
	return func(e *Engine) {
		e.ids = ids
	}
}

// WithHandler registers an extra binding handler in every session.
// Handlers registered this way replace built-ins of the same name.
func WithHandler(name string, spec binding.Spec) Option {
	return func(e *Engine) {
		e.handlers[name] = spec
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: component.NewCatalog(),
		logger:   slog.Default(),
		prefix:   binding.DefaultAttrPrefix,
		handlers: make(map[string]binding.Spec),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's component registry.
func (e *Engine) Registry() component.Registry {
	return e.registry
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
