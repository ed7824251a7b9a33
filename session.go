package compose

import (
	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/component"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
	"github.com/vango-dev/compose/pkg/telemetry"
	"github.com/vango-dev/compose/pkg/template"
)

// Session binds one tree. Everything a session does must happen on the
// goroutine draining its dispatcher.
type Session struct {
	engine   *Engine
	handlers *binding.Handlers
	native   *binding.NativeProvider
	attrs    *binding.AttrProvider
	applier  *binding.Applier
	config   component.Config
}

// Session creates a session whose asynchronous loads are delivered through
// d. onError receives errors from remounts and asynchronous resolutions; nil
// uses reactive.DefaultErrorHandler. observers receive this session's
// lifecycle events after the engine's observer.
func (e *Engine) Session(d reactive.Dispatcher, onError reactive.ErrorHandler, observers ...component.Observer) *Session {
	if d == nil {
		d = reactive.Immediate
	}
	s := &Session{
		engine:   e,
		handlers: binding.NewHandlers(),
		native:   binding.NewNativeProvider(),
	}
	s.config = component.Config{
		Registry: component.Via(e.registry, d),
		IDs:      e.ids,
		Observer: telemetry.Multi(append([]component.Observer{e.observer}, observers...)...),
		OnError:  onError,
		Logger:   e.logger,
	}

	s.handlers.Register("slot", component.SlotHandler)
	s.handlers.Register("component", component.Handler(s.config))
	template.Register(s.handlers)
	for name, spec := range e.handlers {
		s.handlers.Register(name, spec)
	}

	s.attrs = binding.NewAttrProvider(s.handlers)
	s.attrs.Prefix = e.prefix
	s.applier = binding.NewApplier(
		binding.Providers{s.native, s.attrs},
		s.handlers,
		binding.WithLogger(e.logger),
	)
	s.config.Applier = s.applier
	s.config.Params = s.native
	return s
}

// Mount mounts the component named by value into target. value is read
// inside a reaction, so observables it reads cause a remount when they
// change. complete runs once the first mount's bindings have completed.
func (s *Session) Mount(target *dom.Node, value binding.Accessor, complete func()) (*component.Binding, error) {
	return component.New(s.config, target, binding.NewContext(nil), value, complete)
}

// Apply binds root and its descendants against data.
func (s *Session) Apply(data any, root *dom.Node) error {
	return s.applier.Apply(binding.NewContext(data), root)
}

// SetParams attaches native parameters to node. A component mounted on node
// receives them ahead of any descriptor params.
func (s *Session) SetParams(node *dom.Node, params any) {
	s.native.SetNodeValues(node, params)
}

// Handlers returns the session's handler set.
func (s *Session) Handlers() *binding.Handlers {
	return s.handlers
}

// IsBindingAttr reports whether key is a binding attribute in this session.
func (s *Session) IsBindingAttr(key string) bool {
	return s.attrs.IsBindingAttr(key)
}

// HTML renders nodes without binding attributes.
func (s *Session) HTML(nodes ...*dom.Node) (string, error) {
	r := dom.NewRenderer(dom.RendererConfig{OmitAttr: s.attrs.IsBindingAttr})
	return r.RenderToString(nodes...)
}
