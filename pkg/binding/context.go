package binding

// Well-known context keys.
const (
	KeyData   = "$data"
	KeyParent = "$parent"
	KeyRoot   = "$root"
	KeyIndex  = "$index"
)

// Context is the scope bindings evaluate against. Each context has a data
// item ($data), an optional parent, and extra named values such as aliases
// or component keys. Lookups of named values fall through to ancestors.
//
// A Context is immutable once CreateChildContext returns.
type Context struct {
	data   any
	parent *Context
	values map[string]any
}

// NewContext creates a root context for data.
func NewContext(data any) *Context {
	return &Context{data: data}
}

// Data returns the context's data item.
func (c *Context) Data() any {
	return c.data
}

// Parent returns the parent context, or nil for a root.
func (c *Context) Parent() *Context {
	return c.parent
}

// Root returns the outermost ancestor.
func (c *Context) Root() *Context {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// CreateChildContext returns a child context with data as its $data.
// A non-empty alias also exposes data under that name. extend, if non-nil,
// runs on the new child before it is returned; it may call Extend. The
// receiver is never modified.
func (c *Context) CreateChildContext(data any, alias string, extend func(*Context)) *Context {
	child := &Context{data: data, parent: c}
	if alias != "" {
		child.Extend(alias, data)
	}
	if extend != nil {
		extend(child)
	}
	return child
}

// Extend sets a named value on c. Only call it from the extend callback of
// CreateChildContext, before the context is shared.
func (c *Context) Extend(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Lookup resolves a named value: the built-in $data, $parent and $root, or
// any value set with Extend on this context or an ancestor.
func (c *Context) Lookup(key string) (any, bool) {
	switch key {
	case KeyData:
		return c.data, true
	case KeyParent:
		if c.parent == nil {
			return nil, false
		}
		return c.parent.data, true
	case KeyRoot:
		return c.Root().data, true
	}
	for cur := c; cur != nil; cur = cur.parent {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Owner returns the nearest context (c or an ancestor) that defines key
// directly.
func (c *Context) Owner(key string) *Context {
	for cur := c; cur != nil; cur = cur.parent {
		if _, ok := cur.values[key]; ok {
			return cur
		}
	}
	return nil
}
