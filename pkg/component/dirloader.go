package component

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

// DirLoader loads components from a directory. <name>.json is a manifest;
// failing that, <name>.html is a template-only component.
type DirLoader struct {
	Dir       string
	Factories Factories
}

// NewDirLoader creates a DirLoader rooted at dir.
func NewDirLoader(dir string, factories Factories) *DirLoader {
	return &DirLoader{Dir: dir, Factories: factories}
}

// Load implements Loader.
func (l *DirLoader) Load(_ context.Context, name string) (*Definition, error) {
	if !ValidName(name) {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(l.Dir, name+".json"))
	switch {
	case err == nil:
		return decodeDefinition(name, data, l.Factories)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, cerrors.New("E210").Wrap(err)
	}

	data, err = os.ReadFile(filepath.Join(l.Dir, name+".html"))
	switch {
	case err == nil:
		return &Definition{Name: name, Template: HTML(data)}, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	default:
		return nil, cerrors.New("E210").Wrap(err)
	}
}

// Names lists the components in the directory, sorted.
func (l *DirLoader) Names() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, cerrors.New("E210").Wrap(err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := componentName(e.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Watch reports the name of every component whose file changes until ctx
// is cancelled. onChange runs on the watcher's goroutine.
func (l *DirLoader) Watch(ctx context.Context, logger *slog.Logger, onChange func(name string)) error {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(l.Dir); err != nil {
		return cerrors.New("E210").WithDetailf("watching %s", l.Dir).Wrap(err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			name, ok := componentName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			logger.Debug("component changed", "component", name, "op", event.Op.String())
			onChange(name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("component watcher error", "error", err)
		}
	}
}

// WatchInvalidate watches l and drops changed components from reg's cache.
func WatchInvalidate(ctx context.Context, l *DirLoader, reg *LoaderRegistry, logger *slog.Logger) error {
	return l.Watch(ctx, logger, func(name string) {
		reg.Invalidate(name)
	})
}

func componentName(file string) (string, bool) {
	for _, ext := range []string{".json", ".html"} {
		if name, ok := strings.CutSuffix(file, ext); ok && ValidName(name) {
			return name, true
		}
	}
	return "", false
}
