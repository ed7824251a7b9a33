package template

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

type fixture struct {
	native  *binding.NativeProvider
	applier *binding.Applier
}

func newFixture() *fixture {
	h := binding.NewHandlers()
	Register(h)
	native := binding.NewNativeProvider()
	return &fixture{
		native:  native,
		applier: binding.NewApplier(binding.Providers{native, binding.NewAttrProvider(h)}, h),
	}
}

func (f *fixture) apply(t *testing.T, data any, root *dom.Node) {
	t.Helper()
	if err := f.applier.Apply(binding.NewContext(data), root); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func texts(n *dom.Node) string {
	var parts []string
	for _, c := range n.Children() {
		parts = append(parts, c.TextContent())
	}
	return strings.Join(parts, ",")
}

func TestNormalize(t *testing.T) {
	list := []int{1, 2, 3}
	listSig := reactive.NewSignal(list)
	afterAdd := func(*dom.Node, int, any) {}

	t.Run("collection is passed through", func(t *testing.T) {
		got := Normalize(list)
		if reflect.ValueOf(got.Foreach).Pointer() != reflect.ValueOf(list).Pointer() {
			t.Error("Foreach is not the original slice")
		}
		if got.TemplateEngine != Default {
			t.Error("TemplateEngine is not Default")
		}
		if got.As != "" || got.IncludeDestroyed || got.AfterAdd != nil || got.AfterRender != nil ||
			got.BeforeRemove != nil || got.BeforeMove != nil || got.AfterMove != nil {
			t.Errorf("unexpected options set: %+v", got)
		}
	})

	t.Run("observable collection is not unwrapped", func(t *testing.T) {
		got := Normalize(listSig)
		if got.Foreach != any(listSig) {
			t.Errorf("Foreach = %T, want the signal itself", got.Foreach)
		}
	})

	t.Run("nil", func(t *testing.T) {
		got := Normalize(nil)
		if got.Foreach != nil || got.TemplateEngine != Default {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("empty values are passed through", func(t *testing.T) {
		zero := reactive.NewSignal(0)
		for _, v := range []any{false, 0, uint8(0), 0.0, math.NaN(), zero} {
			got := Normalize(v)
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				if g, ok := got.Foreach.(float64); !ok || !math.IsNaN(g) {
					t.Errorf("Normalize(NaN).Foreach = %v", got.Foreach)
				}
				continue
			}
			if got.Foreach != v {
				t.Errorf("Normalize(%v).Foreach = %v, want the value itself", v, got.Foreach)
			}
		}
		if got := Normalize(7); got.Foreach != nil {
			t.Errorf("Normalize(7).Foreach = %v, want nil", got.Foreach)
		}
	})

	t.Run("options map", func(t *testing.T) {
		got := Normalize(map[string]any{"data": list, "as": "item", "afterAdd": afterAdd})
		if !reflect.DeepEqual(got.Foreach, list) {
			t.Errorf("Foreach = %v", got.Foreach)
		}
		if got.As != "item" || got.AfterAdd == nil || got.TemplateEngine != Default {
			t.Errorf("got %+v", got)
		}
		if got.IncludeDestroyed || got.AfterRender != nil || got.BeforeRemove != nil ||
			got.BeforeMove != nil || got.AfterMove != nil {
			t.Errorf("unspecified options set: %+v", got)
		}
	})

	t.Run("options struct", func(t *testing.T) {
		got := Normalize(&ForeachSpec{Data: listSig, IncludeDestroyed: true})
		if got.Foreach != any(listSig) || !got.IncludeDestroyed {
			t.Errorf("got %+v", got)
		}
	})
}

func TestNormalizeDependencies(t *testing.T) {
	list := reactive.NewSignal([]any{1, 2})
	e, err := reactive.NewEffect(func() error {
		Normalize(list)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Dispose()

	list.Set([]any{1, 2, 3})
	if e.Runs() != 1 {
		t.Errorf("collection value created a dependency: runs = %d", e.Runs())
	}

	spec := reactive.NewSignal[any](ForeachSpec{Data: []any{1}})
	e2, err := reactive.NewEffect(func() error {
		Normalize(spec)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e2.Dispose()

	spec.Set(ForeachSpec{Data: []any{1, 2}})
	if e2.Runs() != 2 {
		t.Errorf("options value did not create a dependency: runs = %d", e2.Runs())
	}
}

func TestForeachReconciles(t *testing.T) {
	f := newFixture()
	items := reactive.NewSignal([]any{"a", "b", "c"})

	var events []string
	record := func(kind string) NodeCallback {
		return func(n *dom.Node, index int, item any) {
			events = append(events, fmt.Sprintf("%s %v %d", kind, item, index))
		}
	}

	ul := dom.El("ul", dom.El("li", dom.A("data-text", "$data")))
	f.native.Bind(ul, "foreach", ForeachSpec{
		Data:       items,
		AfterAdd:   record("add"),
		BeforeMove: record("before-move"),
		AfterMove:  record("after-move"),
	})
	f.apply(t, nil, ul)

	if got := texts(ul); got != "a,b,c" {
		t.Fatalf("rendered %q", got)
	}
	if len(events) != 0 {
		t.Errorf("first render fired %v", events)
	}
	first := ul.Children()

	items.Set([]any{"c", "a", "b", "d"})

	if got := texts(ul); got != "c,a,b,d" {
		t.Fatalf("rerendered %q", got)
	}
	now := ul.Children()
	if now[0] != first[2] || now[1] != first[0] || now[2] != first[1] {
		t.Error("retained items did not keep their nodes")
	}
	want := []string{"before-move c 0", "after-move c 0", "add d 3"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	items.Set([]any{"d"})
	if got := texts(ul); got != "d" {
		t.Errorf("after removal %q", got)
	}
	if first[0].Parent() != nil {
		t.Error("removed node still attached")
	}
}

func TestForeachIndex(t *testing.T) {
	f := newFixture()
	items := reactive.NewSignal([]any{"x", "y"})

	ul := dom.El("ul", dom.El("li", dom.A("data-text", "$index")))
	f.apply(t, map[string]any{"items": items}, wrapForeach(ul, "items"))

	if got := texts(ul); got != "0,1" {
		t.Fatalf("rendered %q", got)
	}
	first := ul.Children()

	items.Set([]any{"y", "x"})
	now := ul.Children()
	if now[0] != first[1] || now[1] != first[0] {
		t.Error("items were re-rendered instead of moved")
	}
	if got := texts(ul); got != "0,1" {
		t.Errorf("indexes after move %q", got)
	}
}

func TestForeachEmptyValue(t *testing.T) {
	f := newFixture()
	items := reactive.NewSignal[any](0)

	ul := dom.El("ul", dom.El("li", dom.A("data-text", "$data")))
	f.apply(t, map[string]any{"items": items}, wrapForeach(ul, "items"))
	if n := len(ul.Children()); n != 0 {
		t.Fatalf("zero rendered %d items", n)
	}

	items.Set([]any{"a", "b"})
	if got := texts(ul); got != "a,b" {
		t.Fatalf("rendered %q", got)
	}

	items.Set(false)
	if n := len(ul.Children()); n != 0 {
		t.Errorf("false left %d items", n)
	}
}

func wrapForeach(n *dom.Node, expr string) *dom.Node {
	n.SetAttr("data-foreach", expr)
	return n
}

type task struct {
	name string
	done bool
}

func (t *task) Destroyed() bool { return t.done }

func TestForeachDestroyed(t *testing.T) {
	items := []any{
		map[string]any{"name": "a"},
		map[string]any{"name": "b", "_destroy": true},
		&task{name: "c", done: true},
		&task{name: "d"},
	}

	tests := []struct {
		name string
		spec ForeachSpec
		want int
	}{
		{"skipped", ForeachSpec{Data: items}, 2},
		{"included", ForeachSpec{Data: items, IncludeDestroyed: true}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ul := dom.El("ul", dom.El("li"))
			f.native.Bind(ul, "foreach", tt.spec)
			f.apply(t, nil, ul)
			if got := len(ul.Children()); got != tt.want {
				t.Errorf("rendered %d items, want %d", got, tt.want)
			}
		})
	}
}

func TestForeachBeforeRemove(t *testing.T) {
	f := newFixture()
	items := reactive.NewSignal([]any{"a", "b", "c"})

	var leaving []*dom.Node
	var indexes []int
	ul := dom.El("ul", dom.El("li", dom.A("data-text", "$data")))
	f.native.Bind(ul, "foreach", map[string]any{
		"data": items,
		"beforeRemove": func(n *dom.Node, index int, _ any) {
			leaving = append(leaving, n)
			indexes = append(indexes, index)
		},
	})
	f.apply(t, nil, ul)

	items.Set([]any{"a", "c"})
	if len(leaving) != 1 || indexes[0] != 1 {
		t.Fatalf("beforeRemove calls = %d, indexes %v", len(leaving), indexes)
	}
	if got := texts(ul); got != "a,b,c" {
		t.Errorf("element removed before callback finished: %q", got)
	}

	dom.Remove(leaving[0])
	if got := texts(ul); got != "a,c" {
		t.Errorf("after callback removal %q", got)
	}
}

func TestForeachAfterRenderAndCompletion(t *testing.T) {
	f := newFixture()
	var rendered []any
	ul := dom.El("ul", dom.El("li"))
	f.native.Bind(ul, "foreach", ForeachSpec{
		Data:        []any{1, 2},
		AfterRender: func(nodes []*dom.Node, item any) { rendered = append(rendered, item) },
	})

	completed := 0
	err := f.applier.ApplyToNode(binding.NewContext(nil), ul, func(*dom.Node) { completed++ })
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rendered, []any{1, 2}) {
		t.Errorf("afterRender items = %v", rendered)
	}
	if completed != 1 {
		t.Errorf("completed %d times, want 1", completed)
	}
}

func TestForeachFromMarkup(t *testing.T) {
	f := newFixture()
	root := dom.MustParseHTML(`<ul data-foreach="{ data: people, as: 'person' }"><li data-text="person.Name"></li></ul>`)[0]
	f.apply(t, map[string]any{
		"people": []any{map[string]any{"Name": "Grace"}, map[string]any{"Name": "Ada"}},
	}, root)

	if got := len(root.Children()); got != 2 {
		t.Fatalf("rendered %d items", got)
	}
	if got := root.Children()[1].TextContent(); got != "Ada" {
		t.Errorf("alias lookup rendered %q", got)
	}
}

func TestTemplateSingle(t *testing.T) {
	f := newFixture()
	name := reactive.NewSignal("Ada")

	div := dom.El("div", dom.El("span", dom.A("data-text", "who")))
	f.native.Bind(div, "template", Options{Data: name, As: "who"})
	f.apply(t, nil, div)

	if got := div.TextContent(); got != "Ada" {
		t.Fatalf("rendered %q", got)
	}
	first := div.FirstChild()

	name.Set("Grace")
	if got := div.TextContent(); got != "Grace" {
		t.Errorf("rerendered %q", got)
	}
	if div.FirstChild() == first || first.Parent() != nil {
		t.Error("template did not replace its rendering")
	}
	if len(div.Children()) != 1 {
		t.Errorf("children = %d, want 1", len(div.Children()))
	}
}

func TestTemplateForeachOption(t *testing.T) {
	f := newFixture()
	root := dom.MustParseHTML(`<ul data-template="{ foreach: items }"><li data-text="$data"></li></ul>`)[0]
	f.apply(t, map[string]any{"items": []any{"x", "y"}}, root)

	if got := texts(root); got != "x,y" {
		t.Errorf("rendered %q", got)
	}
}

type pair [2]string

func (p pair) Len() int { return 2 }

func (p pair) At(i int) any { return p[i] }

func TestItems(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
	}{
		{"nil", nil, nil},
		{"false", false, nil},
		{"zero", 0, nil},
		{"any slice", []any{1, "a"}, []any{1, "a"}},
		{"typed slice", []int{1, 2}, []any{1, 2}},
		{"array", [2]string{"a", "b"}, []any{"a", "b"}},
		{"indexer", pair{"l", "r"}, []any{"l", "r"}},
		{"scalar", 7, []any{7}},
		{"string", "abc", []any{"abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Items(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Items(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	m := map[string]any{"k": 1}
	if identity(m) != identity(m) {
		t.Error("same map has different identities")
	}
	if identity(m) == identity(map[string]any{"k": 1}) {
		t.Error("equal maps share an identity")
	}
	if identity(3) != identity(3) {
		t.Error("equal scalars differ")
	}
	type holder struct{ v any }
	h := holder{v: []int{1}}
	if identity(h) == identity(h) {
		t.Error("uncomparable value matched")
	}
}

func TestIncreasingRun(t *testing.T) {
	tests := []struct {
		in   []int
		want []bool
	}{
		{nil, []bool{}},
		{[]int{0, 1, 2}, []bool{true, true, true}},
		{[]int{2, 0, 1}, []bool{false, true, true}},
		{[]int{1, 0}, []bool{false, true}},
		{[]int{3, 0, 1, 4, 2}, []bool{false, true, true, false, true}},
	}
	for _, tt := range tests {
		if got := increasingRun(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("increasingRun(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
