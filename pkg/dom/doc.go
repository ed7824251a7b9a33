// Package dom provides the mutable node tree that bindings operate on.
//
// Unlike a virtual DOM, these nodes are the live tree: bindings replace a
// node's children in place and register dispose callbacks that run when the
// node is cleaned.
//
// # Core Types
//
// Node is an element, text or comment node. El, Text and Comment build
// nodes; ParseHTML builds them from markup using golang.org/x/net/html.
//
// # Tree Mutation
//
// AppendChild, InsertBefore, Detach, Remove, Empty and SetChildren mutate
// the tree. Remove, Empty and SetChildren clean the nodes they drop, which
// runs every callback registered with OnDispose on them and their
// descendants.
//
// # Rendering
//
// Renderer serializes a node list to HTML with deterministic attribute
// order.
package dom
