// Package component mounts reusable components into a dom tree.
//
// A component binding names a component, either as a string or as a
// descriptor carrying parameters:
//
//	<div data-component="'user-card'"></div>
//	<div data-component="{ name: cardName, params: { user: current } }"></div>
//
// The binding resolves the name through a Registry, renders the
// definition's template into the node, creates the view-model and binds the
// new subtree against a context exposing $component,
// $componentTemplateNodes and $componentTemplateSlotNodes.
//
// # Generations
//
// Every evaluation of the bound value starts a new generation. Resolution
// may complete asynchronously; only the resolution belonging to the latest
// generation, and for the latest requested name, is allowed to mount.
// Anything older is dropped silently. Before a new mount is installed the
// previous view-model is disposed.
//
// # Registries
//
// Catalog resolves synchronously from memory. LoaderRegistry loads through
// a Loader (HTTPLoader, S3Loader, DirLoader) on a goroutine and delivers the
// result through a reactive.Dispatcher, so continuations run on the tree's
// thread. Concurrent loads of one name are collapsed and successful loads
// cached.
//
// # Slots
//
// Children the caller places inside the component node are captured before
// the first mount. Elements carrying a slot attribute are available to the
// slot binding inside the template:
//
//	<div data-component="'panel'">
//	    <h2 slot="title">Settings</h2>
//	</div>
//
//	<!-- panel template -->
//	<section><header data-slot="'title'">Untitled</header></section>
package component
