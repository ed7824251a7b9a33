package dom

import (
	"strings"
	"testing"
)

func TestParseHTML(t *testing.T) {
	nodes, err := ParseHTML(`<div class="card"><h1 data-text="title"></h1><!-- note --></div>text`)
	if err != nil {
		t.Fatalf("ParseHTML error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(nodes))
	}

	div := nodes[0]
	if div.Tag != "div" || div.Attr("class") != "card" {
		t.Errorf("unexpected element: %s class=%q", div.Tag, div.Attr("class"))
	}
	kids := div.Children()
	if len(kids) != 2 {
		t.Fatalf("expected 2 children, got %d", len(kids))
	}
	if kids[0].Attr("data-text") != "title" {
		t.Error("attribute not preserved")
	}
	if kids[1].Kind != KindComment || kids[1].Data != " note " {
		t.Errorf("comment not preserved: %+v", kids[1])
	}
	if nodes[1].Kind != KindText || nodes[1].Data != "text" {
		t.Errorf("trailing text not preserved: %+v", nodes[1])
	}
}

func TestRenderRoundTrip(t *testing.T) {
	src := `<section id="s"><p class="a">x &amp; y</p><br><span slot="s"></span></section>`
	nodes := MustParseHTML(src)

	got := HTML(nodes...)
	want := `<section id="s"><p class="a">x &amp; y</p><br><span slot="s"></span></section>`
	if got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestRendererOmitAttr(t *testing.T) {
	n := El("div", A("data-component", "'x'"), A("id", "a"), A("hidden", ""))
	r := NewRenderer(RendererConfig{
		OmitAttr: func(k string) bool { return strings.HasPrefix(k, "data-") },
	})

	got, err := r.RenderToString(n)
	if err != nil {
		t.Fatal(err)
	}
	if got != `<div hidden id="a"></div>` {
		t.Errorf("got %q", got)
	}
}

func TestRendererPretty(t *testing.T) {
	n := El("ul", El("li", El("span", "one")))
	got, err := NewRenderer(RendererConfig{Pretty: true}).RenderToString(n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "\n  <li>\n    <span>one</span>") {
		t.Errorf("expected indented child, got %q", got)
	}
}

func TestEscapeHTML(t *testing.T) {
	if got := escapeHTML(`<a href="x">'&'</a>`); got != "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;" {
		t.Errorf("escapeHTML = %q", got)
	}
	if got := escapeAttr("a\nb\t"); got != "a&#10;b&#9;" {
		t.Errorf("escapeAttr = %q", got)
	}
}
