package template

import (
	"reflect"

	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// entry is one rendered item.
type entry struct {
	item  any
	key   any
	index *reactive.Signal[int]
	ctx   *binding.Context
	nodes []*dom.Node
}

// renderer keeps a node's children in step with its options.
type renderer struct {
	p       binding.Params
	tmpl    []*dom.Node
	options func() Options
	foreach bool

	entries  []*entry
	rendered bool
	effect   *reactive.Effect
}

func newRenderer(p binding.Params, foreach bool, options func() Options) (*renderer, error) {
	r := &renderer{
		p:       p,
		tmpl:    p.Node.Children(),
		options: options,
		foreach: foreach,
	}
	for _, n := range r.tmpl {
		dom.Detach(n)
	}

	name := "template"
	if foreach {
		name = "foreach"
	}
	e, err := reactive.NewEffect(r.update, reactive.WithName(name))
	r.effect = e
	if err != nil {
		e.Dispose()
		return nil, err
	}
	return r, nil
}

// Dispose stops reacting to the options. The rendered nodes are cleaned
// with the bound node.
func (r *renderer) Dispose() {
	r.effect.Dispose()
}

func (r *renderer) update() error {
	opts := r.options()
	engine := opts.TemplateEngine
	if engine == nil {
		engine = Default
	}

	if !r.foreach && opts.Foreach == nil {
		data := reactive.Unwrap(opts.Data)
		var err error
		reactive.Untracked(func() {
			err = r.renderSingle(opts, engine, data)
		})
		return err
	}

	items := visibleItems(opts)
	var err error
	reactive.Untracked(func() {
		err = r.reconcile(opts, engine, items)
	})
	return err
}

func (r *renderer) renderSingle(opts Options, engine Engine, data any) error {
	for _, e := range r.entries {
		for _, n := range e.nodes {
			dom.Remove(n)
		}
	}

	ctx := r.p.Context
	if opts.Data != nil {
		ctx = ctx.CreateChildContext(data, opts.As, nil)
	}
	e := &entry{item: data, ctx: ctx, index: reactive.NewSignal(0)}
	e.nodes = engine.RenderTemplate(r.tmpl, ctx)
	r.entries = []*entry{e}
	r.arrange(e.nodes)

	if err := r.bind([]*entry{e}); err != nil {
		return err
	}
	if opts.AfterRender != nil {
		opts.AfterRender(e.nodes, data)
	}
	r.rendered = true
	return nil
}

// reconcile updates the rendered entries to match items. Entries are
// matched by item identity; unmatched old entries are removed and unmatched
// items rendered.
func (r *renderer) reconcile(opts Options, engine Engine, items []any) error {
	old := r.entries
	pool := make(map[any][]int, len(old))
	for i, e := range old {
		pool[e.key] = append(pool[e.key], i)
	}

	used := make([]bool, len(old))
	next := make([]*entry, len(items))
	var added, kept []*entry
	var keptFrom []int

	for i, item := range items {
		key := identity(item)
		if q := pool[key]; len(q) > 0 {
			j := q[0]
			pool[key] = q[1:]
			used[j] = true
			next[i] = old[j]
			kept = append(kept, old[j])
			keptFrom = append(keptFrom, j)
			continue
		}
		e := r.render(engine, opts.As, item, key, i)
		next[i] = e
		added = append(added, e)
	}

	stable := increasingRun(keptFrom)
	var moved []*entry
	for i, e := range kept {
		if !stable[i] {
			moved = append(moved, e)
		}
	}

	newIndex := make(map[*entry]int, len(next))
	for i, e := range next {
		newIndex[e] = i
	}

	if opts.BeforeMove != nil {
		for _, e := range moved {
			eachElement(e.nodes, func(n *dom.Node) { opts.BeforeMove(n, newIndex[e], e.item) })
		}
	}

	// Removed entries leave the tree now unless BeforeRemove takes over
	// their elements; those stay next to the entry that preceded them.
	var leaving []*entry
	var leavingAt []int
	lingering := make(map[*entry][]*dom.Node)
	var prev *entry
	for j, e := range old {
		if used[j] {
			prev = e
			continue
		}
		leaving = append(leaving, e)
		leavingAt = append(leavingAt, j)
		for _, n := range e.nodes {
			if opts.BeforeRemove != nil && n.IsElement() {
				lingering[prev] = append(lingering[prev], n)
				continue
			}
			dom.Remove(n)
		}
	}

	final := append([]*dom.Node(nil), lingering[nil]...)
	for _, e := range next {
		final = append(final, e.nodes...)
		final = append(final, lingering[e]...)
	}
	r.arrange(final)

	for i, e := range next {
		if e.index.Peek() != i {
			e.index.Set(i)
		}
	}
	r.entries = next

	if err := r.bind(added); err != nil {
		return err
	}

	if opts.AfterRender != nil {
		for _, e := range added {
			opts.AfterRender(e.nodes, e.item)
		}
	}
	if opts.AfterMove != nil {
		for _, e := range moved {
			eachElement(e.nodes, func(n *dom.Node) { opts.AfterMove(n, newIndex[e], e.item) })
		}
	}
	if opts.AfterAdd != nil && r.rendered {
		for _, e := range added {
			eachElement(e.nodes, func(n *dom.Node) { opts.AfterAdd(n, newIndex[e], e.item) })
		}
	}
	if opts.BeforeRemove != nil {
		for i, e := range leaving {
			eachElement(e.nodes, func(n *dom.Node) { opts.BeforeRemove(n, leavingAt[i], e.item) })
		}
	}

	r.rendered = true
	return nil
}

func (r *renderer) render(engine Engine, as string, item, key any, index int) *entry {
	idx := reactive.NewSignal(index)
	ctx := r.p.Context.CreateChildContext(item, as, func(c *binding.Context) {
		c.Extend(binding.KeyIndex, idx)
	})
	return &entry{
		item:  item,
		key:   key,
		index: idx,
		ctx:   ctx,
		nodes: engine.RenderTemplate(r.tmpl, ctx),
	}
}

// bind applies bindings to freshly rendered entries and signals completion
// once all of them have completed.
func (r *renderer) bind(entries []*entry) error {
	pending := len(entries)
	if pending == 0 {
		r.complete()
		return nil
	}
	for _, e := range entries {
		err := r.p.Applier.ApplyToNodes(e.ctx, e.nodes, func() {
			pending--
			if pending == 0 {
				r.complete()
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) complete() {
	if r.p.Complete != nil {
		r.p.Complete()
	}
}

// arrange makes nodes the bound node's children in order. Children that are
// not in nodes, such as elements still waiting on BeforeRemove, are kept
// after them.
func (r *renderer) arrange(nodes []*dom.Node) {
	keep := make(map[*dom.Node]bool, len(nodes))
	for _, n := range nodes {
		keep[n] = true
	}
	var extra []*dom.Node
	for _, c := range r.p.Node.Children() {
		if !keep[c] {
			extra = append(extra, c)
		}
		dom.Detach(c)
	}
	for _, n := range nodes {
		r.p.Node.AppendChild(n)
	}
	for _, n := range extra {
		r.p.Node.AppendChild(n)
	}
}

func eachElement(nodes []*dom.Node, fn func(*dom.Node)) {
	for _, n := range nodes {
		if n.IsElement() {
			fn(n)
		}
	}
}

// visibleItems unwraps the collection and drops destroyed items.
func visibleItems(opts Options) []any {
	all := Items(reactive.Unwrap(opts.Foreach))
	if opts.IncludeDestroyed {
		return all
	}
	out := all[:0:0]
	for _, item := range all {
		if !isDestroyed(item) {
			out = append(out, item)
		}
	}
	return out
}

// Items lists the items of a collection value. nil, false, zero and NaN
// have no items. Slices, arrays and Indexers yield their elements. Any other
// value is a single item.
func Items(v any) []any {
	if absent(v) {
		return nil
	}
	switch c := v.(type) {
	case []any:
		return append([]any(nil), c...)
	case Indexer:
		out := make([]any, c.Len())
		for i := range out {
			out[i] = c.At(i)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

func isDestroyed(item any) bool {
	switch v := reactive.Unwrap(item).(type) {
	case Destroyable:
		return v.Destroyed()
	case map[string]any:
		d, _ := reactive.Unwrap(v["_destroy"]).(bool)
		return d
	}
	return false
}

type refKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// identity returns a map key that matches the same item across renders.
// Maps, slices and funcs match by reference; values that cannot be
// compared never match.
func identity(item any) any {
	if item == nil {
		return nil
	}
	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Map, reflect.Func:
		return refKey{typ: rv.Type(), ptr: rv.Pointer()}
	case reflect.Slice:
		return refKey{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
	}
	if rv.Comparable() {
		return item
	}
	return new(int)
}

// increasingRun marks the members of a longest increasing subsequence of
// seq. Entries outside it are the ones that moved.
func increasingRun(seq []int) []bool {
	n := len(seq)
	stable := make([]bool, n)
	if n == 0 {
		return stable
	}

	tails := make([]int, 0, n) // indices into seq
	prev := make([]int, n)
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		stable[i] = true
	}
	return stable
}
