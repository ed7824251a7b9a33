// Package template provides the template and foreach bindings.
//
// Both render the bound node's original children, the template, into the
// node. The foreach binding is shorthand for a template binding with a
// Foreach option: Normalize translates its value into Options.
//
//	<ul data-foreach="items">...</ul>
//	<ul data-template="{ foreach: items }">...</ul>
//
// Items are matched across renders by identity, so retained items keep
// their nodes and bindings. Each item is rendered against a child context
// whose $data is the item and whose $index is an observable position.
package template
