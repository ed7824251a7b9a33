package telemetry

import (
	"time"

	"github.com/vango-dev/compose/pkg/component"
)

// Multi fans events out to several observers, in order. nil entries are
// skipped.
func Multi(observers ...component.Observer) component.Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multi []component.Observer

func (m multi) Resolving(name string, generation uint64) {
	for _, o := range m {
		o.Resolving(name, generation)
	}
}

func (m multi) Stale(name string, generation uint64) {
	for _, o := range m {
		o.Stale(name, generation)
	}
}

func (m multi) Mounted(name string, generation uint64, elapsed time.Duration) {
	for _, o := range m {
		o.Mounted(name, generation, elapsed)
	}
}

func (m multi) Failed(name string, generation uint64, err error) {
	for _, o := range m {
		o.Failed(name, generation, err)
	}
}

func (m multi) Unmounted(name string) {
	for _, o := range m {
		o.Unmounted(name)
	}
}
