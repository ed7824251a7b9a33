package binding

import (
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/compose/pkg/dom"
)

// Accessor returns a binding's current value. It is called inside the
// handler's reaction, so reads it performs are tracked.
type Accessor func() any

// Const returns an Accessor for a fixed value.
func Const(v any) Accessor {
	return func() any { return v }
}

// Binding is a single (handler name, value) pair found on a node.
type Binding struct {
	Name  string
	Value Accessor
}

// Provider finds the bindings declared on a node.
type Provider interface {
	Bindings(node *dom.Node, ctx *Context) ([]Binding, error)
}

// ParamProvider supplies natively attached component parameters for a
// node. NodeValues returns nil when the node has none.
type ParamProvider interface {
	NodeValues(node *dom.Node) any
}

// NativeProvider holds bindings and parameters attached from Go code rather
// than markup.
type NativeProvider struct {
	mu       sync.RWMutex
	bindings map[*dom.Node][]Binding
	params   map[*dom.Node]any
}

// NewNativeProvider creates an empty NativeProvider.
func NewNativeProvider() *NativeProvider {
	return &NativeProvider{
		bindings: make(map[*dom.Node][]Binding),
		params:   make(map[*dom.Node]any),
	}
}

// Bind attaches a binding to node. value may be an Accessor or any other
// value; observables are passed through for the handler to unwrap.
func (p *NativeProvider) Bind(node *dom.Node, name string, value any) {
	var acc Accessor
	switch v := value.(type) {
	case Accessor:
		acc = v
	case func() any:
		acc = v
	default:
		acc = Const(value)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindings[node] = append(p.bindings[node], Binding{Name: name, Value: acc})
}

// SetNodeValues attaches component parameters to node. They take
// precedence over a descriptor's params.
func (p *NativeProvider) SetNodeValues(node *dom.Node, params any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if params == nil {
		delete(p.params, node)
		return
	}
	p.params[node] = params
}

// NodeValues implements ParamProvider.
func (p *NativeProvider) NodeValues(node *dom.Node) any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.params[node]
}

// Bindings implements Provider.
func (p *NativeProvider) Bindings(node *dom.Node, _ *Context) ([]Binding, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b := p.bindings[node]
	if len(b) == 0 {
		return nil, nil
	}
	out := make([]Binding, len(b))
	copy(out, b)
	return out, nil
}

// Forget drops everything attached to node.
func (p *NativeProvider) Forget(node *dom.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bindings, node)
	delete(p.params, node)
}

// DefaultAttrPrefix is the attribute prefix AttrProvider reads.
const DefaultAttrPrefix = "data-"

// AttrProvider reads bindings from element attributes of the form
// data-<handler>="<expression>". Only attributes naming a registered
// handler are bindings; others are left alone.
type AttrProvider struct {
	Prefix   string
	handlers *Handlers

	cache sync.Map // expression source -> Expr
}

// NewAttrProvider creates an AttrProvider recognising handlers' names.
func NewAttrProvider(handlers *Handlers) *AttrProvider {
	return &AttrProvider{Prefix: DefaultAttrPrefix, handlers: handlers}
}

// IsBindingAttr reports whether key is an attribute this provider consumes.
// Renderers use it to strip binding attributes from output.
func (p *AttrProvider) IsBindingAttr(key string) bool {
	name, ok := strings.CutPrefix(key, p.Prefix)
	if !ok {
		return false
	}
	_, ok = p.handlers.Get(name)
	return ok
}

// Bindings implements Provider. Bindings are returned in attribute-name
// order.
func (p *AttrProvider) Bindings(node *dom.Node, ctx *Context) ([]Binding, error) {
	if !node.IsElement() {
		return nil, nil
	}

	keys := node.AttrKeys()
	sort.Strings(keys)

	var out []Binding
	for _, key := range keys {
		if !p.IsBindingAttr(key) {
			continue
		}
		expr, err := p.parse(node.Attr(key))
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{
			Name:  strings.TrimPrefix(key, p.Prefix),
			Value: func() any { return expr.Eval(ctx) },
		})
	}
	return out, nil
}

func (p *AttrProvider) parse(src string) (Expr, error) {
	if e, ok := p.cache.Load(src); ok {
		return e.(Expr), nil
	}
	e, err := ParseExpr(src)
	if err != nil {
		return nil, err
	}
	p.cache.Store(src, e)
	return e, nil
}

// Providers combines providers. Bindings are concatenated in order and
// NodeValues returns the first non-nil result.
type Providers []Provider

// Bindings implements Provider.
func (ps Providers) Bindings(node *dom.Node, ctx *Context) ([]Binding, error) {
	var out []Binding
	for _, p := range ps {
		b, err := p.Bindings(node, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// NodeValues implements ParamProvider.
func (ps Providers) NodeValues(node *dom.Node) any {
	for _, p := range ps {
		if pp, ok := p.(ParamProvider); ok {
			if v := pp.NodeValues(node); v != nil {
				return v
			}
		}
	}
	return nil
}

var (
	_ Provider      = (*NativeProvider)(nil)
	_ ParamProvider = (*NativeProvider)(nil)
	_ Provider      = (*AttrProvider)(nil)
	_ Provider      = Providers(nil)
)
