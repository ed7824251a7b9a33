package template

import (
	"math"
	"reflect"

	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// NodeCallback is called for each element node of an item when it is added,
// moved or about to be removed.
type NodeCallback func(node *dom.Node, index int, item any)

// RenderCallback is called with the nodes rendered for an item.
type RenderCallback func(nodes []*dom.Node, item any)

// Options is the canonical option set of the template binding.
type Options struct {
	// Foreach is the collection to iterate. It may be an observable; the
	// template binding unwraps it with dependency tracking.
	Foreach any

	// Data renders the template once against this value when Foreach is
	// nil. Ignored by the foreach binding.
	Data any

	// TemplateEngine renders the template for each item. Nil means Default.
	TemplateEngine Engine

	// As exposes each item under this name in addition to $data.
	As string

	// IncludeDestroyed renders items marked destroyed.
	IncludeDestroyed bool

	// AfterAdd runs for items added after the first render.
	AfterAdd NodeCallback

	// BeforeRemove takes over removing an item's elements: they stay in
	// the tree until the callback calls dom.Remove. The index is the
	// item's former position.
	BeforeRemove NodeCallback

	// AfterRender runs for every newly rendered item, after its bindings
	// are applied.
	AfterRender RenderCallback

	// BeforeMove and AfterMove bracket repositioning of retained items.
	BeforeMove NodeCallback
	AfterMove  NodeCallback
}

// ForeachSpec is the options form of the foreach binding's value.
type ForeachSpec struct {
	Data             any
	As               string
	IncludeDestroyed bool
	AfterAdd         NodeCallback
	BeforeRemove     NodeCallback
	AfterRender      RenderCallback
	BeforeMove       NodeCallback
	AfterMove        NodeCallback
}

// Lengther is a collection reporting its length. Normalize treats any
// Lengther as the items themselves rather than as an options value.
type Lengther interface {
	Len() int
}

// Indexer is a Lengther whose items can be read by position.
type Indexer interface {
	Lengther
	At(i int) any
}

// Destroyable items are skipped by the template binding while Destroyed
// reports true, unless Options.IncludeDestroyed is set. A map item is
// destroyed when its "_destroy" key holds true.
type Destroyable interface {
	Destroyed() bool
}

// Normalize turns the value of a foreach binding into template options.
//
// The value is peeked first. When it is empty (nil, false, zero) or a
// collection, the original value, observable or not, becomes Foreach and no
// dependency is taken here; the template binding takes it when it unwraps
// Foreach. Otherwise the value is an options object: it is unwrapped, making
// the caller depend on it, and Data becomes Foreach.
func Normalize(value any) Options {
	peeked := reactive.Peek(value)
	if absent(peeked) || hasLength(peeked) {
		return Options{Foreach: value, TemplateEngine: Default}
	}

	reactive.Unwrap(value)
	spec := foreachSpec(peeked)
	return Options{
		Foreach:          spec.Data,
		As:               spec.As,
		IncludeDestroyed: spec.IncludeDestroyed,
		AfterAdd:         spec.AfterAdd,
		BeforeRemove:     spec.BeforeRemove,
		AfterRender:      spec.AfterRender,
		BeforeMove:       spec.BeforeMove,
		AfterMove:        spec.AfterMove,
		TemplateEngine:   Default,
	}
}

// absent reports whether v is nil, false, numeric zero or NaN.
func absent(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.IsZero()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}

func hasLength(v any) bool {
	if _, ok := v.(Lengther); ok {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		return true
	}
	return false
}

func foreachSpec(v any) ForeachSpec {
	switch v := v.(type) {
	case ForeachSpec:
		return v
	case *ForeachSpec:
		if v != nil {
			return *v
		}
	case map[string]any:
		return ForeachSpec{
			Data:             v["data"],
			As:               stringOption(v["as"]),
			IncludeDestroyed: boolOption(v["includeDestroyed"]),
			AfterAdd:         nodeCallback(v["afterAdd"]),
			BeforeRemove:     nodeCallback(v["beforeRemove"]),
			AfterRender:      renderCallback(v["afterRender"]),
			BeforeMove:       nodeCallback(v["beforeMove"]),
			AfterMove:        nodeCallback(v["afterMove"]),
		}
	}
	return ForeachSpec{}
}

// optionsOf reads the value of a template binding.
func optionsOf(v any) Options {
	switch v := reactive.Unwrap(v).(type) {
	case Options:
		return v
	case *Options:
		if v != nil {
			return *v
		}
	case map[string]any:
		return Options{
			Foreach:          v["foreach"],
			Data:             v["data"],
			As:               stringOption(v["as"]),
			IncludeDestroyed: boolOption(v["includeDestroyed"]),
			AfterAdd:         nodeCallback(v["afterAdd"]),
			BeforeRemove:     nodeCallback(v["beforeRemove"]),
			AfterRender:      renderCallback(v["afterRender"]),
			BeforeMove:       nodeCallback(v["beforeMove"]),
			AfterMove:        nodeCallback(v["afterMove"]),
		}
	case nil:
	default:
		return Options{Data: v}
	}
	return Options{}
}

func stringOption(v any) string {
	s, _ := reactive.Unwrap(v).(string)
	return s
}

func boolOption(v any) bool {
	b, _ := reactive.Unwrap(v).(bool)
	return b
}

func nodeCallback(v any) NodeCallback {
	switch f := v.(type) {
	case NodeCallback:
		return f
	case func(*dom.Node, int, any):
		return f
	}
	return nil
}

func renderCallback(v any) RenderCallback {
	switch f := v.(type) {
	case RenderCallback:
		return f
	case func([]*dom.Node, any):
		return f
	}
	return nil
}
