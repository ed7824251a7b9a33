package binding

import (
	"fmt"
	"sort"

	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// TextHandler replaces a node's content with the text of its value and
// keeps it updated.
var TextHandler = Spec{
	ControlsDescendants: true,
	New: func(p Params) (Handler, error) {
		return reactive.NewEffect(func() error {
			dom.SetText(p.Node, Stringify(reactive.Unwrap(p.Value())))
			return nil
		}, reactive.WithName("text"))
	},
}

// AttrHandler sets attributes from a map value. A nil or false attribute
// value removes the attribute; true sets it with an empty value.
var AttrHandler = Spec{
	New: func(p Params) (Handler, error) {
		return reactive.NewEffect(func() error {
			attrs, ok := reactive.Unwrap(p.Value()).(map[string]any)
			if !ok {
				return nil
			}
			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				switch v := reactive.Unwrap(attrs[k]).(type) {
				case nil:
					p.Node.RemoveAttr(k)
				case bool:
					if v {
						p.Node.SetAttr(k, "")
					} else {
						p.Node.RemoveAttr(k)
					}
				default:
					p.Node.SetAttr(k, Stringify(v))
				}
			}
			return nil
		}, reactive.WithName("attr"))
	},
}

// Stringify formats a bound value for text output. nil is the empty string.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
