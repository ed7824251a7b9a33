// Package errors provides structured, actionable error messages.
//
// Every error carries a code (e.g. "E202") that maps to a short message, a
// fix suggestion and a documentation URL. Packages attach their own
// sentinel with Kind so callers can branch with errors.Is without knowing
// codes.
//
// # Error Categories
//
//   - component: mount failures (no name, unknown component, no template)
//   - loader: component sources that could not be fetched or parsed
//   - binding: unknown handlers and malformed expressions
//   - config: invalid compose.json
//
// # Usage
//
//	err := errors.New("E202").
//	    WithDetailf("component %q", name).
//	    Kind(component.ErrUnknownComponent)
//
//	fmt.Println(err.Format())
package errors
