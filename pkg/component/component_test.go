package component

import (
	"errors"
	"testing"
	"time"

	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// pendingRegistry records resolutions and completes them on demand.
type pendingRegistry struct {
	defs  map[string]*Definition
	calls []pendingCall
}

type pendingCall struct {
	name string
	done Resolved
}

func (r *pendingRegistry) Resolve(name string, done Resolved) {
	r.calls = append(r.calls, pendingCall{name: name, done: done})
}

func (r *pendingRegistry) complete(i int) {
	c := r.calls[i]
	c.done(r.defs[c.name], nil)
}

// recorder is a view-model that logs its lifecycle.
type recorder struct {
	name   string
	events *[]string
}

func (r *recorder) Dispose() {
	*r.events = append(*r.events, "dispose "+r.name)
}

func (r *recorder) AnchorTo(*dom.Node) {
	*r.events = append(*r.events, "anchor "+r.name)
}

func recordingDef(name string, events *[]string) *Definition {
	return &Definition{
		Name:     name,
		Template: Nodes{dom.El("p", name)},
		CreateViewModel: func(params any, info Info) (any, error) {
			*events = append(*events, "create "+name)
			return &recorder{name: name, events: events}, nil
		},
	}
}

type harness struct {
	handlers *binding.Handlers
	native   *binding.NativeProvider
	applier  *binding.Applier
	errs     []error
}

func newHarness(reg Registry) *harness {
	h := &harness{
		handlers: binding.NewHandlers(),
		native:   binding.NewNativeProvider(),
	}
	h.handlers.Register("slot", SlotHandler)
	h.handlers.Register("component", Handler(Config{Registry: reg, OnError: h.onError}))
	h.applier = binding.NewApplier(binding.Providers{h.native, binding.NewAttrProvider(h.handlers)}, h.handlers)
	return h
}

func (h *harness) onError(err error) {
	h.errs = append(h.errs, err)
}

func (h *harness) config(reg Registry) Config {
	return Config{Registry: reg, Applier: h.applier, Params: h.native, OnError: h.onError}
}

func (h *harness) mount(t *testing.T, reg Registry, target *dom.Node, value any) *Binding {
	t.Helper()
	b, err := New(h.config(reg), target, binding.NewContext(nil), binding.Const(value), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestExtractSlots(t *testing.T) {
	a := dom.El("a", dom.A("slot", "x"))
	b := dom.El("b")
	c := dom.El("c", dom.A("slot", "y"))
	d := dom.El("d", dom.A("slot", "x"))
	empty := dom.El("e", dom.A("slot", ""))

	slots := ExtractSlots([]*dom.Node{a, b, dom.Text("text"), c, empty, d})
	if len(slots) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(slots), slots)
	}
	if slots["x"] != d {
		t.Error("last node declaring slot x should win")
	}
	if slots["y"] != c {
		t.Error("slot y should be <c>")
	}
	if len(ExtractSlots(nil)) != 0 {
		t.Error("no nodes, no slots")
	}
}

func TestGenerationSafety(t *testing.T) {
	var events []string
	reg := &pendingRegistry{defs: map[string]*Definition{"card": recordingDef("card", &events)}}
	name := reactive.NewSignal("card")

	h := newHarness(reg)
	target := dom.El("div")
	b := h.mount(t, reg, target, name)
	defer b.Dispose()

	name.Notify()
	name.Notify()
	if len(reg.calls) != 3 {
		t.Fatalf("resolutions = %d, want 3", len(reg.calls))
	}

	reg.complete(0)
	reg.complete(1)
	if len(target.Children()) != 0 || len(events) != 0 {
		t.Fatalf("superseded completion mutated the node: %v", events)
	}

	reg.complete(2)
	if got := dom.InnerHTML(target); got != "<p>card</p>" {
		t.Errorf("content = %q", got)
	}

	// Repeated or late completions are inert once mounted.
	reg.complete(2)
	reg.complete(0)
	want := []string{"create card", "anchor card"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if len(h.errs) != 0 {
		t.Errorf("stale completions reported errors: %v", h.errs)
	}
}

func TestNameRace(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{"A completes after B mounted", []int{1, 0}},
		{"A completes before B", []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []string
			reg := &pendingRegistry{defs: map[string]*Definition{
				"a": recordingDef("a", &events),
				"b": recordingDef("b", &events),
			}}
			value := reactive.NewSignal("a")
			h := newHarness(reg)
			target := dom.El("div")
			b := h.mount(t, reg, target, value)
			defer b.Dispose()

			value.Set("b")
			for _, i := range tt.order {
				reg.complete(i)
			}

			if got := dom.InnerHTML(target); got != "<p>b</p>" {
				t.Errorf("content = %q, want <p>b</p>", got)
			}
			if b.Name() != "b" {
				t.Errorf("Name() = %q", b.Name())
			}
			for _, e := range events {
				if e == "create a" {
					t.Errorf("component a was mounted: %v", events)
				}
			}
		})
	}
}

type templated struct {
	tmpl Template
}

func (t *templated) ComponentTemplate() Template { return t.tmpl }

func TestTemplatePrecedence(t *testing.T) {
	vmFactory := func(tmpl Template) Factory {
		return func(any, Info) (any, error) { return &templated{tmpl: tmpl}, nil }
	}

	tests := []struct {
		name    string
		def     *Definition
		params  any
		want    string
		wantErr error
	}{
		{
			name: "definition template wins",
			def:  &Definition{Template: Nodes{dom.El("p", "def")}, CreateViewModel: vmFactory(HTML("<p>vm</p>"))},
			want: "<p>def</p>",
		},
		{
			name: "view-model template used when definition has none",
			def:  &Definition{CreateViewModel: vmFactory(HTML("<p>vm</p>"))},
			want: "<p>vm</p>",
		},
		{
			name:   "template-only params carry a template",
			def:    &Definition{},
			params: map[string]any{"template": "<i>params</i>"},
			want:   "<i>params</i>",
		},
		{
			name:    "neither supplies one",
			def:     &Definition{CreateViewModel: vmFactory(nil)},
			wantErr: ErrMissingTemplate,
		},
		{
			name:    "empty html is missing",
			def:     &Definition{Template: HTML("")},
			wantErr: ErrMissingTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := NewCatalog()
			cat.Register("c", tt.def)
			h := newHarness(cat)
			target := dom.El("div")

			b, err := New(h.config(cat), target, binding.NewContext(nil),
				binding.Const(Descriptor{Name: "c", Params: tt.params}), nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				var ce *cerrors.ComposeError
				if !errors.As(err, &ce) || ce.Code != "E203" {
					t.Errorf("err = %v, want code E203", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer b.Dispose()
			if got := dom.InnerHTML(target); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisposalOrdering(t *testing.T) {
	var events []string
	cat := NewCatalog()
	cat.Register("a", recordingDef("a", &events))
	cat.Register("b", recordingDef("b", &events))

	value := reactive.NewSignal("a")
	h := newHarness(cat)
	b := h.mount(t, cat, dom.El("div"), value)

	value.Set("b")
	want := []string{"create a", "anchor a", "dispose a", "create b", "anchor b"}
	assertEvents(t, events, want)
	if vm, ok := b.ViewModel().(*recorder); !ok || vm.name != "b" {
		t.Errorf("ViewModel() = %v", b.ViewModel())
	}

	b.Dispose()
	assertEvents(t, events, append(want, "dispose b"))
	if b.ViewModel() != nil {
		t.Error("view-model should be cleared on dispose")
	}
}

func TestIdempotentReentry(t *testing.T) {
	var events []string
	cat := NewCatalog()
	cat.Register("a", recordingDef("a", &events))

	value := reactive.NewSignal("a")
	h := newHarness(cat)
	b := h.mount(t, cat, dom.El("div"), value)
	defer b.Dispose()

	value.Notify()
	assertEvents(t, events, []string{"create a", "anchor a", "dispose a", "create a", "anchor a"})
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"map without name", map[string]any{"params": 1}},
		{"unsupported type", 42},
		{"non-string name", Descriptor{Name: 5}},
		{"empty observable name", &Descriptor{Name: reactive.NewSignal("")}},
		{"nil descriptor pointer", (*Descriptor)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := NewCatalog()
			h := newHarness(cat)
			_, err := New(h.config(cat), dom.El("div"), binding.NewContext(nil), binding.Const(tt.value), nil)
			if !errors.Is(err, ErrNoComponentName) {
				t.Fatalf("err = %v, want ErrNoComponentName", err)
			}
			var ce *cerrors.ComposeError
			if !errors.As(err, &ce) || ce.Code != "E201" {
				t.Errorf("code = %v, want E201", err)
			}
		})
	}
}

func TestUnknownComponent(t *testing.T) {
	cat := NewCatalog()
	h := newHarness(cat)
	_, err := New(h.config(cat), dom.El("div"), binding.NewContext(nil), binding.Const("ghost"), nil)
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("err = %v, want ErrUnknownComponent", err)
	}

	boom := errors.New("boom")
	failing := RegistryFunc(func(name string, done Resolved) { done(nil, boom) })
	_, err = New(h.config(failing), dom.El("div"), binding.NewContext(nil), binding.Const("x"), nil)
	if !errors.Is(err, ErrUnknownComponent) || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ErrUnknownComponent wrapping boom", err)
	}
}

func TestInvalidTemplateError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := invalidTemplateError("card", cause)

	var ce *cerrors.ComposeError
	if !errors.As(err, &ce) || ce.Code != "E205" || ce.Category != cerrors.CategoryComponent {
		t.Fatalf("err = %v, want E205 in the component category", err)
	}
	if !errors.Is(err, ErrInvalidTemplate) || !errors.Is(err, cause) {
		t.Errorf("err = %v, want ErrInvalidTemplate wrapping the parse error", err)
	}
	if errors.Is(err, ErrMissingTemplate) {
		t.Error("a template that fails to parse is not a missing template")
	}
}

func TestAsyncErrorsGoToErrorHandler(t *testing.T) {
	reg := &pendingRegistry{defs: map[string]*Definition{}}
	h := newHarness(reg)
	b := h.mount(t, reg, dom.El("div"), "ghost")
	defer b.Dispose()

	reg.complete(0)
	if len(h.errs) != 1 || !errors.Is(h.errs[0], ErrUnknownComponent) {
		t.Errorf("errs = %v", h.errs)
	}
}

func TestRemountErrorsGoToErrorHandler(t *testing.T) {
	var events []string
	cat := NewCatalog()
	cat.Register("a", recordingDef("a", &events))
	value := reactive.NewSignal[any]("a")

	h := newHarness(cat)
	b := h.mount(t, cat, dom.El("div"), value)
	defer b.Dispose()

	value.Set(nil)
	if len(h.errs) != 1 || !errors.Is(h.errs[0], ErrNoComponentName) {
		t.Errorf("errs = %v", h.errs)
	}
}

func TestParamsPrecedence(t *testing.T) {
	var got []any
	cat := NewCatalog()
	cat.Register("card", &Definition{
		Template: HTML("<p></p>"),
		CreateViewModel: func(params any, info Info) (any, error) {
			got = append(got, params)
			return params, nil
		},
	})

	params := reactive.NewSignal("from descriptor")
	name := reactive.NewSignal("card")
	h := newHarness(cat)
	target := dom.El("div")
	b := h.mount(t, cat, target, map[string]any{"name": name, "params": params})
	defer b.Dispose()

	params.Set("changed")
	h.native.SetNodeValues(target, "native")
	name.Notify()

	want := []any{"from descriptor", "changed", "native"}
	if len(got) != len(want) {
		t.Fatalf("params = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("params = %v, want %v", got, want)
		}
	}
}

func TestFactoryErrorPropagates(t *testing.T) {
	boom := errors.New("factory failed")
	cat := NewCatalog()
	cat.Register("c", &Definition{
		Template:        HTML("<p></p>"),
		CreateViewModel: func(any, Info) (any, error) { return nil, boom },
	})
	h := newHarness(cat)
	_, err := New(h.config(cat), dom.El("div"), binding.NewContext(nil), binding.Const("c"), nil)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want factory error", err)
	}
}

func TestMountContextAndSlots(t *testing.T) {
	var info Info
	cat := NewCatalog()
	cat.Register("panel", &Definition{
		Template: HTML(`<section>` +
			`<header data-slot="'title'">Untitled</header>` +
			`<p data-text="$component.body"></p>` +
			`<footer data-slot="'footer'"><em data-text="body"></em></footer>` +
			`</section>`),
		CreateViewModel: func(params any, i Info) (any, error) {
			info = i
			return map[string]any{"body": params.(map[string]any)["body"]}, nil
		},
	})

	h := newHarness(cat)
	root := dom.MustParseHTML(`<div data-component="{ name: 'panel', params: { body: text } }">` +
		`<h2 slot="title" data-text="caller"></h2></div>`)[0]
	ctx := binding.NewContext(map[string]any{"text": "hello", "caller": "from caller"})

	if err := h.applier.Apply(ctx, root); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if info.Element != root || len(info.TemplateNodes) != 1 || info.TemplateNodes[0].Tag != "h2" {
		t.Errorf("factory info = %+v", info)
	}

	section := root.FirstChild()
	if section == nil || section.Tag != "section" {
		t.Fatalf("template not materialized: %s", dom.HTML(root))
	}
	kids := section.Children()
	header, p, footer := kids[0], kids[1], kids[2]

	if h2 := header.FirstChild(); h2 == nil || h2.Tag != "h2" || h2.TextContent() != "from caller" {
		t.Errorf("header = %s", dom.HTML(header))
	}
	if p.TextContent() != "hello" {
		t.Errorf("p = %s", dom.HTML(p))
	}
	if footer.TextContent() != "hello" {
		t.Errorf("footer fallback = %s", dom.HTML(footer))
	}
	if _, ok := ctx.Lookup(KeyComponent); ok {
		t.Error("ambient context was modified")
	}
	if info.TemplateNodes[0].TextContent() != "" {
		t.Error("slot projection modified the original node")
	}
}

func TestBuildMountContext(t *testing.T) {
	parent := binding.NewContext("outer")
	original := []*dom.Node{dom.El("b", dom.A("slot", "s"))}
	vm := map[string]any{"x": 1}

	ctx := BuildMountContext(parent, vm, original)
	if ctx.Parent() != parent {
		t.Error("mount context should be a child of the ambient context")
	}
	if v, _ := ctx.Lookup(KeyComponent); v == nil {
		t.Error("$component missing")
	}
	if v, _ := ctx.Lookup(KeyTemplateNodes); len(v.([]*dom.Node)) != 1 {
		t.Error("$componentTemplateNodes missing")
	}
	if v, _ := ctx.Lookup(KeySlotNodes); v.(Slots)["s"] != original[0] {
		t.Error("$componentTemplateSlotNodes missing")
	}
	if _, ok := parent.Lookup(KeyComponent); ok {
		t.Error("parent was modified")
	}
}

type aware struct {
	completed []*dom.Node
}

func (a *aware) DescendantsComplete(n *dom.Node) { a.completed = append(a.completed, n) }

func TestDescendantsCompleteWaitsForNestedComponents(t *testing.T) {
	outerVM := &aware{}
	cat := NewCatalog()
	cat.Register("outer", &Definition{
		Template:        HTML(`<div data-component="'inner'"></div>`),
		CreateViewModel: func(any, Info) (any, error) { return outerVM, nil },
	})
	pending := &pendingRegistry{defs: map[string]*Definition{
		"inner": {Template: HTML("<span>inner</span>")},
	}}
	reg := Fallback{cat, pending}

	h := newHarness(reg)
	target := dom.El("div")
	completions := 0
	b, err := New(h.config(reg), target, binding.NewContext(nil), binding.Const("outer"), func() { completions++ })
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	if len(outerVM.completed) != 0 || completions != 0 {
		t.Fatal("completed before nested component resolved")
	}

	pending.complete(0)
	if len(outerVM.completed) != 1 || outerVM.completed[0] != target {
		t.Errorf("DescendantsComplete calls = %v", outerVM.completed)
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if got := dom.InnerHTML(target); got != `<div data-component="'inner'"><span>inner</span></div>` {
		t.Errorf("content = %q", got)
	}
}

func TestLiveTemplate(t *testing.T) {
	count := reactive.NewSignal(1)
	cat := NewCatalog()
	cat.Register("live", &Definition{
		Template: RenderFunc(func() []*dom.Node {
			return []*dom.Node{
				dom.El("b", dom.Textf("%d", count.Get())),
				dom.El("i", dom.A("data-text", "label")),
			}
		}),
	})
	cat.Register("static", &Definition{Template: HTML("<p>static</p>")})

	name := reactive.NewSignal("live")
	h := newHarness(cat)
	target := dom.El("div")
	b := h.mount(t, cat, target, Descriptor{Name: name, Params: map[string]any{"label": "x"}})
	defer b.Dispose()

	want := `<b>1</b><i data-text="label">x</i>`
	if got := dom.InnerHTML(target); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}

	count.Set(2)
	want = `<b>2</b><i data-text="label">x</i>`
	if got := dom.InnerHTML(target); got != want {
		t.Errorf("after update = %q, want %q", got, want)
	}

	name.Set("static")
	count.Set(3)
	if got := dom.InnerHTML(target); got != "<p>static</p>" {
		t.Errorf("live rendering not released: %q", got)
	}
}

type counterVM struct {
	LifeCycle
	runs int
}

func TestLifeCycle(t *testing.T) {
	sig := reactive.NewSignal(0)
	var vm *counterVM
	cat := NewCatalog()
	cat.Register("counter", &Definition{
		Template: HTML("<p></p>"),
		CreateViewModel: func(any, Info) (any, error) {
			vm = &counterVM{}
			_, err := vm.Effect(func() error {
				_ = sig.Get()
				vm.runs++
				return nil
			})
			return vm, err
		},
	})
	cat.Register("other", &Definition{Template: HTML("<p></p>")})

	name := reactive.NewSignal("counter")
	h := newHarness(cat)
	target := dom.El("div")
	b := h.mount(t, cat, target, name)
	defer b.Dispose()

	if vm.Anchor() != target {
		t.Error("AnchorTo not called with the target")
	}
	sig.Set(1)
	if vm.runs != 2 {
		t.Errorf("runs = %d, want 2", vm.runs)
	}

	cleaned := false
	vm.OnDispose(func() { cleaned = true })
	name.Set("other")
	sig.Set(2)
	if vm.runs != 2 {
		t.Error("effect survived unmount")
	}
	if !cleaned || !vm.IsDisposed() || vm.Anchor() != nil {
		t.Error("view-model not disposed on unmount")
	}
}

func TestDisposeDropsPendingResolution(t *testing.T) {
	var events []string
	reg := &pendingRegistry{defs: map[string]*Definition{"a": recordingDef("a", &events)}}
	h := newHarness(reg)
	target := dom.El("div")
	h.native.Bind(target, "component", "a")

	root := dom.El("main", target)
	if err := h.applier.Apply(binding.NewContext(nil), root); err != nil {
		t.Fatal(err)
	}
	dom.Clean(root)

	reg.complete(0)
	if len(events) != 0 || len(target.Children()) != 0 {
		t.Errorf("disposed binding mounted: %v", events)
	}
}

type recordingObserver struct {
	NopObserver
	events []string
}

func (o *recordingObserver) Resolving(name string, _ uint64) {
	o.events = append(o.events, "resolving "+name)
}

func (o *recordingObserver) Stale(name string, _ uint64) {
	o.events = append(o.events, "stale "+name)
}

func (o *recordingObserver) Mounted(name string, _ uint64, _ time.Duration) {
	o.events = append(o.events, "mounted "+name)
}

func (o *recordingObserver) Unmounted(name string) {
	o.events = append(o.events, "unmounted "+name)
}

func TestObserverAndIDSource(t *testing.T) {
	var events []string
	reg := &pendingRegistry{defs: map[string]*Definition{
		"a": recordingDef("a", &events),
		"b": recordingDef("b", &events),
	}}
	obs := &recordingObserver{}
	var issued []uint64
	next := uint64(100)
	ids := IDFunc(func() uint64 {
		next += 10
		issued = append(issued, next)
		return next
	})

	h := newHarness(reg)
	cfg := h.config(reg)
	cfg.Observer = obs
	cfg.IDs = ids

	value := reactive.NewSignal("a")
	b, err := New(cfg, dom.El("div"), binding.NewContext(nil), func() any { return value }, nil)
	if err != nil {
		t.Fatal(err)
	}
	reg.complete(0)
	value.Set("b")
	reg.complete(0)
	reg.complete(1)
	b.Dispose()

	assertEvents(t, obs.events, []string{
		"resolving a", "mounted a",
		"resolving b", "stale a", "unmounted a", "mounted b",
		"unmounted b",
	})
	if len(issued) != 2 || issued[0] != 110 || issued[1] != 120 {
		t.Errorf("issued = %v", issued)
	}
}

func TestRepeatedDeliveryIsStale(t *testing.T) {
	var events []string
	reg := &pendingRegistry{defs: map[string]*Definition{"card": recordingDef("card", &events)}}
	obs := &recordingObserver{}

	h := newHarness(reg)
	cfg := h.config(reg)
	cfg.Observer = obs
	target := dom.El("div")
	b, err := New(cfg, target, binding.NewContext(nil), binding.Const("card"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	reg.complete(0)
	reg.complete(0)

	assertEvents(t, obs.events, []string{"resolving card", "mounted card", "stale card"})
	assertEvents(t, events, []string{"create card", "anchor card"})
	if got := dom.InnerHTML(target); got != "<p>card</p>" {
		t.Errorf("content = %q", got)
	}
	if len(h.errs) != 0 {
		t.Errorf("errors = %v", h.errs)
	}
}

func TestNextGenerationIsMonotonic(t *testing.T) {
	a := NextGeneration.Next()
	b := NextGeneration.Next()
	if b <= a {
		t.Errorf("ids not increasing: %d then %d", a, b)
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	c.Register("b", &Definition{})
	c.Register("a", &Definition{})
	if c.Get("a").Name != "a" {
		t.Error("Register should default the definition name")
	}
	names := c.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v", names)
	}
	c.Unregister("a")
	if c.Get("a") != nil {
		t.Error("Unregister failed")
	}
}

func TestMaterializerReleasesLiveRendering(t *testing.T) {
	s := reactive.NewSignal("one")
	target := dom.El("div")
	var m Materializer

	if err := m.Materialize("x", RenderFunc(func() []*dom.Node {
		return []*dom.Node{dom.Text(s.Get())}
	}), target); err != nil {
		t.Fatal(err)
	}
	if !m.Live() || target.TextContent() != "one" {
		t.Fatalf("live render = %q", target.TextContent())
	}

	tmpl := Nodes{dom.El("p", "static")}
	if err := m.Materialize("x", tmpl, target); err != nil {
		t.Fatal(err)
	}
	if m.Live() {
		t.Error("previous live rendering not released")
	}
	s.Set("two")
	if got := dom.InnerHTML(target); got != "<p>static</p>" {
		t.Errorf("content = %q", got)
	}
	if target.FirstChild() == tmpl[0] {
		t.Error("node templates must be cloned")
	}

	if err := m.Materialize("x", nil, target); !errors.Is(err, ErrMissingTemplate) {
		t.Errorf("nil template err = %v", err)
	}
}
