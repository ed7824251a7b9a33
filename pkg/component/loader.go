package component

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/reactive"
)

// Loader fetches a component definition from some source. It returns
// (nil, nil) when the source has no component called name.
type Loader interface {
	Load(ctx context.Context, name string) (*Definition, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, name string) (*Definition, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, name string) (*Definition, error) {
	return f(ctx, name)
}

// DefaultLoadTimeout bounds a single load.
const DefaultLoadTimeout = 10 * time.Second

// LoaderRegistry is an asynchronous Registry backed by a Loader. Loads run
// on their own goroutine and results are delivered through the dispatcher,
// so continuations always run on the tree's thread. Successful loads are
// cached; concurrent loads of one name share a single fetch.
type LoaderRegistry struct {
	loader     Loader
	dispatcher reactive.Dispatcher
	timeout    time.Duration
	logger     *slog.Logger
	base       context.Context

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Definition

	// Bumped by Invalidate; a load started under an older epoch does not
	// populate the cache.
	epoch  uint64
	epochs map[string]uint64
}

// LoaderOption configures a LoaderRegistry.
type LoaderOption func(*LoaderRegistry)

// WithLoadTimeout bounds each load. Zero disables the bound.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(r *LoaderRegistry) {
		r.timeout = d
	}
}

// WithLoaderLogger sets the logger for load failures.
func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(r *LoaderRegistry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithBaseContext sets the context loads derive from. Cancelling it aborts
// in-flight loads.
func WithBaseContext(ctx context.Context) LoaderOption {
	return func(r *LoaderRegistry) {
		if ctx != nil {
			r.base = ctx
		}
	}
}

// NewLoaderRegistry creates a registry loading through loader and
// delivering results through dispatcher. A nil dispatcher delivers on the
// loading goroutine, which is only safe for trees nothing else touches.
func NewLoaderRegistry(loader Loader, dispatcher reactive.Dispatcher, opts ...LoaderOption) *LoaderRegistry {
	if dispatcher == nil {
		dispatcher = reactive.Immediate
	}
	r := &LoaderRegistry{
		loader:     loader,
		dispatcher: dispatcher,
		timeout:    DefaultLoadTimeout,
		logger:     slog.Default(),
		base:       context.Background(),
		cache:      make(map[string]*Definition),
		epochs:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Registry. Cached definitions are delivered
// synchronously.
func (r *LoaderRegistry) Resolve(name string, done Resolved) {
	r.resolve(name, r.dispatcher, done)
}

// Via returns a view of r that delivers asynchronous results through d.
// The view shares r's cache and in-flight loads.
func (r *LoaderRegistry) Via(d reactive.Dispatcher) Registry {
	return RegistryFunc(func(name string, done Resolved) {
		r.resolve(name, d, done)
	})
}

func (r *LoaderRegistry) resolve(name string, d reactive.Dispatcher, done Resolved) {
	if def := r.cached(name); def != nil {
		done(def, nil)
		return
	}
	go func() {
		def, err := r.load(r.base, name)
		d.Dispatch(func() { done(def, err) })
	}()
}

// Get loads name, blocking until the definition is available.
func (r *LoaderRegistry) Get(ctx context.Context, name string) (*Definition, error) {
	if def := r.cached(name); def != nil {
		return def, nil
	}
	return r.load(ctx, name)
}

// Preload loads names concurrently and caches them. It returns the first
// failure; a name the loader does not know is a failure here.
func (r *LoaderRegistry) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			def, err := r.Get(ctx, name)
			if err != nil {
				return err
			}
			if def == nil {
				return unknownComponentError(name, nil)
			}
			return nil
		})
	}
	return g.Wait()
}

// Invalidate drops cached definitions. With no names it clears the cache.
func (r *LoaderRegistry) Invalidate(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(names) == 0 {
		clear(r.cache)
		r.epoch++
		return
	}
	for _, name := range names {
		delete(r.cache, name)
		r.epochs[name]++
		r.group.Forget(name)
	}
}

// Cached returns the number of cached definitions.
func (r *LoaderRegistry) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *LoaderRegistry) cached(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache[name]
}

func (r *LoaderRegistry) epochOf(name string) (uint64, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch, r.epochs[name]
}

func (r *LoaderRegistry) load(ctx context.Context, name string) (*Definition, error) {
	v, err, _ := r.group.Do(name, func() (any, error) {
		if def := r.cached(name); def != nil {
			return def, nil
		}
		all, own := r.epochOf(name)
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		def, err := r.loader.Load(ctx, name)
		if err != nil {
			r.logger.Warn("component load failed", "component", name, "error", err)
			return nil, cerrors.FromError(err, "E210")
		}
		if def == nil {
			return (*Definition)(nil), nil
		}
		if def.Name == "" {
			def.Name = name
		}

		r.mu.Lock()
		if r.epoch == all && r.epochs[name] == own {
			r.cache[name] = def
		}
		r.mu.Unlock()
		return def, nil
	})
	if err != nil {
		return nil, err
	}
	def, _ := v.(*Definition)
	return def, nil
}

var _ DispatchingRegistry = (*LoaderRegistry)(nil)
