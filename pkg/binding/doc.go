// Package binding attaches behaviour to nodes of a dom tree.
//
// A Provider reports the bindings on a node as (handler name, value) pairs.
// NativeProvider holds bindings attached from Go; AttrProvider reads
// data-<handler> attributes whose values are small expressions evaluated
// against a Context. An Applier walks a tree, looks up each binding's
// handler in a Handlers set and attaches it:
//
//	handlers := binding.NewHandlers()
//	applier := binding.NewApplier(binding.NewAttrProvider(handlers), handlers)
//	err := applier.Apply(binding.NewContext(vm), root)
//
// Handlers that control their descendants (text, component, foreach) stop
// the walk at their node and bind whatever content they produce themselves.
// Async handlers report completion through Params.Complete, and the
// applier's completion callbacks fire only after every async handler in the
// subtree has completed.
package binding
