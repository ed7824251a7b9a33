package component

import (
	"github.com/vango-dev/compose/pkg/dom"
)

// Template is a component template source. It is one of Nodes, HTML or
// RenderFunc.
type Template interface {
	isTemplate()
}

// Nodes is a node-list template. It is deep-cloned on every mount.
type Nodes []*dom.Node

// HTML is markup parsed into a node list on every mount.
type HTML string

// RenderFunc produces a component's content. It runs inside a reactive
// computation, so the content is re-rendered when signals it reads change.
type RenderFunc func() []*dom.Node

func (Nodes) isTemplate()      {}
func (HTML) isTemplate()       {}
func (RenderFunc) isTemplate() {}

// present reports whether t is a usable template source.
func present(t Template) bool {
	switch v := t.(type) {
	case nil:
		return false
	case HTML:
		return v != ""
	case RenderFunc:
		return v != nil
	default:
		return true
	}
}

// Info is passed to a view-model factory.
type Info struct {
	// Element is the node the component is mounted into.
	Element *dom.Node

	// TemplateNodes are the node's original children, captured before the
	// first mount.
	TemplateNodes []*dom.Node
}

// Factory creates a component's view-model from its parameters.
type Factory func(params any, info Info) (any, error)

// Definition describes how to materialize and instantiate a component.
// Definitions are owned by a Registry and never modified once resolved.
type Definition struct {
	// Name is informational; registries key definitions themselves.
	Name string

	// Template is the component's markup. When nil, the view-model must
	// provide one.
	Template Template

	// CreateViewModel builds the view-model. When nil the component is
	// template-only and its parameters are the view-model.
	CreateViewModel Factory
}

// Descriptor is the structured form of a component binding value.
// Name may be a string or an observable holding one; Params may be any
// value, observable or not.
type Descriptor struct {
	Name   any
	Params any
}

// =============================================================================
// View-model capabilities
// =============================================================================

// Disposable view-models are disposed when they are unmounted.
type Disposable interface {
	Dispose()
}

// Anchorable view-models are told their mount node before descendant
// bindings are applied.
type Anchorable interface {
	AnchorTo(node *dom.Node)
}

// DescendantAware view-models are notified once all bindings inside the
// component have completed.
type DescendantAware interface {
	DescendantsComplete(node *dom.Node)
}

// TemplateProvider view-models supply a template for definitions that have
// none.
type TemplateProvider interface {
	ComponentTemplate() Template
}

// viewModelTemplate returns the template a view-model carries, if any.
// Besides TemplateProvider, a map view-model (typical of template-only
// components) may carry one under "template".
func viewModelTemplate(vm any) Template {
	switch v := vm.(type) {
	case TemplateProvider:
		return v.ComponentTemplate()
	case map[string]any:
		return AsTemplate(v["template"])
	}
	return nil
}

// AsTemplate converts common template shapes to a Template: a Template is
// returned as-is, a string becomes HTML, a node or node slice becomes
// Nodes and a func() []*dom.Node becomes a RenderFunc. Anything else is nil.
func AsTemplate(v any) Template {
	switch t := v.(type) {
	case Template:
		return t
	case string:
		return HTML(t)
	case *dom.Node:
		if t == nil {
			return nil
		}
		return Nodes{t}
	case []*dom.Node:
		return Nodes(t)
	case func() []*dom.Node:
		return RenderFunc(t)
	}
	return nil
}
