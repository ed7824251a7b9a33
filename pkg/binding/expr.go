package binding

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/reactive"
)

// Expr is a parsed binding expression.
//
// The grammar is deliberately small:
//
//	expr   = literal | path | object | array
//	literal= 'str' | "str" | number | true | false | null
//	path   = ident { "." ident }
//	object = "{" [ key ":" expr { "," key ":" expr } ] "}"
//	array  = "[" [ expr { "," expr } ] "]"
//
// Path segments are resolved against the context (named values first, then
// properties of $data). Intermediate observables are unwrapped with
// dependency tracking; the final value is returned as-is, so a binding can
// decide whether and when to unwrap it.
type Expr interface {
	Eval(ctx *Context) any
	String() string
}

// ParseExpr parses src into an Expr.
func ParseExpr(src string) (Expr, error) {
	p := &parser{src: src}
	p.next()
	e, err := p.parseExpr()
	if err != nil {
		return nil, p.fail(err)
	}
	if p.tok.kind != tokEOF {
		return nil, p.fail(fmt.Errorf("unexpected %q at offset %d", p.tok.text, p.tok.pos))
	}
	return e, nil
}

// MustParseExpr is like ParseExpr but panics on error.
func MustParseExpr(src string) Expr {
	e, err := ParseExpr(src)
	if err != nil {
		panic(err)
	}
	return e
}

type literalExpr struct{ value any }

func (e literalExpr) Eval(*Context) any { return e.value }
func (e literalExpr) String() string    { return fmt.Sprintf("%#v", e.value) }

type pathExpr struct{ segments []string }

func (e pathExpr) String() string { return strings.Join(e.segments, ".") }

func (e pathExpr) Eval(ctx *Context) any {
	v, ok := ctx.Lookup(e.segments[0])
	if !ok {
		v = Property(reactive.Unwrap(ctx.Data()), e.segments[0])
	}
	for _, seg := range e.segments[1:] {
		v = Property(reactive.Unwrap(v), seg)
	}
	return v
}

type objectField struct {
	key   string
	value Expr
}

type objectExpr struct{ fields []objectField }

func (e objectExpr) Eval(ctx *Context) any {
	out := make(map[string]any, len(e.fields))
	for _, f := range e.fields {
		out[f.key] = f.value.Eval(ctx)
	}
	return out
}

func (e objectExpr) String() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.key + ": " + f.value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type arrayExpr struct{ items []Expr }

func (e arrayExpr) Eval(ctx *Context) any {
	out := make([]any, len(e.items))
	for i, item := range e.items {
		out[i] = item.Eval(ctx)
	}
	return out
}

func (e arrayExpr) String() string {
	parts := make([]string, len(e.items))
	for i, item := range e.items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Property reads a named property from v: a map key, an exported struct
// field (exact name, then with the first letter upper-cased), or a
// zero-argument method returning one value. Missing properties are nil.
func Property(v any, name string) any {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m[name]
	}

	rv := reflect.ValueOf(v)
	if m := findMethod(rv, name); m.IsValid() {
		if m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
			return m.Call(nil)[0].Interface()
		}
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Struct:
		for _, candidate := range []string{name, exportName(name)} {
			f := rv.FieldByName(candidate)
			if f.IsValid() && f.CanInterface() {
				return f.Interface()
			}
		}
	case reflect.Slice, reflect.Array:
		if name == "length" {
			return rv.Len()
		}
		if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx < rv.Len() {
			return rv.Index(idx).Interface()
		}
	}
	return nil
}

func findMethod(rv reflect.Value, name string) reflect.Value {
	if !rv.IsValid() {
		return reflect.Value{}
	}
	for _, candidate := range []string{name, exportName(name)} {
		if m := rv.MethodByName(candidate); m.IsValid() {
			return m
		}
	}
	return reflect.Value{}
}

func exportName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// =============================================================================
// Lexer / parser
// =============================================================================

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) fail(err error) error {
	return cerrors.New("E221").WithDetailf("%q", p.src).Wrap(err)
}

func (p *parser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.src[p.pos]
	switch {
	case c == '\'' || c == '"':
		p.pos++
		var sb strings.Builder
		for p.pos < len(p.src) && p.src[p.pos] != c {
			if p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
				p.pos++
			}
			sb.WriteByte(p.src[p.pos])
			p.pos++
		}
		if p.pos >= len(p.src) {
			// Unterminated; report as a bad token.
			p.tok = token{kind: tokPunct, text: p.src[start:], pos: start}
			return
		}
		p.pos++
		p.tok = token{kind: tokString, text: sb.String(), pos: start}
	case c == '-' || (c >= '0' && c <= '9'):
		p.pos++
		for p.pos < len(p.src) {
			d := p.src[p.pos]
			if d == '.' && (p.pos+1 >= len(p.src) || !isDigit(p.src[p.pos+1])) {
				break
			}
			if !isDigit(d) && d != '.' {
				break
			}
			p.pos++
		}
		p.tok = token{kind: tokNumber, text: p.src[start:p.pos], pos: start}
	case isIdentStart(c):
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokPunct, text: string(c), pos: start}
	}
}

func (p *parser) expect(punct string) error {
	if p.tok.kind != tokPunct || p.tok.text != punct {
		return fmt.Errorf("expected %q at offset %d", punct, p.tok.pos)
	}
	p.next()
	return nil
}

func (p *parser) parseExpr() (Expr, error) {
	switch p.tok.kind {
	case tokString:
		s := p.tok.text
		p.next()
		return literalExpr{value: s}, nil
	case tokNumber:
		text := p.tok.text
		p.next()
		if i, err := strconv.Atoi(text); err == nil {
			return literalExpr{value: i}, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", text)
		}
		return literalExpr{value: f}, nil
	case tokIdent:
		return p.parsePath()
	case tokPunct:
		switch p.tok.text {
		case "{":
			return p.parseObject()
		case "[":
			return p.parseArray()
		}
	case tokEOF:
		return nil, fmt.Errorf("empty expression")
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
}

func (p *parser) parsePath() (Expr, error) {
	first := p.tok.text
	p.next()
	switch first {
	case "true":
		return literalExpr{value: true}, nil
	case "false":
		return literalExpr{value: false}, nil
	case "null", "nil":
		return literalExpr{value: nil}, nil
	}

	segments := []string{first}
	for p.tok.kind == tokPunct && p.tok.text == "." {
		p.next()
		if p.tok.kind != tokIdent && p.tok.kind != tokNumber {
			return nil, fmt.Errorf("expected property name at offset %d", p.tok.pos)
		}
		segments = append(segments, p.tok.text)
		p.next()
	}
	return pathExpr{segments: segments}, nil
}

func (p *parser) parseObject() (Expr, error) {
	p.next() // {
	obj := objectExpr{}
	for !(p.tok.kind == tokPunct && p.tok.text == "}") {
		if p.tok.kind != tokIdent && p.tok.kind != tokString {
			return nil, fmt.Errorf("expected key at offset %d", p.tok.pos)
		}
		key := p.tok.text
		p.next()
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		obj.fields = append(obj.fields, objectField{key: key, value: value})
		if p.tok.kind == tokPunct && p.tok.text == "," {
			p.next()
			continue
		}
		if !(p.tok.kind == tokPunct && p.tok.text == "}") {
			return nil, fmt.Errorf("expected \",\" or \"}\" at offset %d", p.tok.pos)
		}
	}
	p.next() // }
	return obj, nil
}

func (p *parser) parseArray() (Expr, error) {
	p.next() // [
	arr := arrayExpr{}
	for !(p.tok.kind == tokPunct && p.tok.text == "]") {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arr.items = append(arr.items, item)
		if p.tok.kind == tokPunct && p.tok.text == "," {
			p.next()
			continue
		}
		if !(p.tok.kind == tokPunct && p.tok.text == "]") {
			return nil, fmt.Errorf("expected \",\" or \"]\" at offset %d", p.tok.pos)
		}
	}
	p.next() // ]
	return arr, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
