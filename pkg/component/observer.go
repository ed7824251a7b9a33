package component

import "time"

// Observer receives mount lifecycle events. Implementations must be cheap;
// they run on the tree's thread. See package telemetry.
type Observer interface {
	// Resolving is called when a generation starts resolving name.
	Resolving(name string, generation uint64)

	// Stale is called when a superseded resolution completes and is
	// discarded.
	Stale(name string, generation uint64)

	// Mounted is called once a generation's template and view-model are
	// installed and descendant binding has started.
	Mounted(name string, generation uint64, elapsed time.Duration)

	// Failed is called when a mount fails. generation is 0 when the bound
	// value did not name a component.
	Failed(name string, generation uint64, err error)

	// Unmounted is called when a mounted view-model is torn down.
	Unmounted(name string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Resolving(string, uint64) {}
func (NopObserver) Stale(string, uint64) {}
func (NopObserver) Mounted(string, uint64, time.Duration) {}
func (NopObserver) Failed(string, uint64, error) {}
func (NopObserver) Unmounted(string) {}

var _ Observer = NopObserver{}
