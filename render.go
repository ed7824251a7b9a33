package compose

import (
	"context"
	"errors"

	"github.com/vango-dev/compose/pkg/binding"
	"github.com/vango-dev/compose/pkg/component"
	"github.com/vango-dev/compose/pkg/dom"
	"github.com/vango-dev/compose/pkg/reactive"
)

// RenderConfig configures a one-shot render.
type RenderConfig struct {
	// Raw keeps binding attributes in the output.
	Raw bool

	// Pretty indents the output.
	Pretty bool

	// Tag is the element the component is mounted into (default: "div").
	// It is not part of the output.
	Tag string
}

// RenderOption configures a one-shot render.
type RenderOption func(*RenderConfig)

// Raw keeps binding attributes in the output.
func Raw() RenderOption {
	return func(c *RenderConfig) {
		c.Raw = true
	}
}

// Pretty indents the output.
func Pretty() RenderOption {
	return func(c *RenderConfig) {
		c.Pretty = true
	}
}

// WithTag sets the element the component is mounted into.
func WithTag(tag string) RenderOption {
	return func(c *RenderConfig) {
		if tag != "" {
			c.Tag = tag
		}
	}
}

// Render mounts the component name with params, waits for it and all nested
// components to finish binding, and returns the mounted content as HTML.
// The mount is torn down before Render returns.
//
// Render fails with the first error any mount in the tree reports, or with
// ctx's error if the tree does not complete in time.
func (e *Engine) Render(ctx context.Context, name string, params any, opts ...RenderOption) (string, error) {
	config := RenderConfig{Tag: "div"}
	for _, opt := range opts {
		opt(&config)
	}

	q := reactive.NewQueue(e.logger)
	var errs []error
	s := e.Session(q, func(err error) {
		errs = append(errs, err)
	})

	target := dom.El(config.Tag)
	done := make(chan struct{})
	value := binding.Const(component.Descriptor{Name: name, Params: params})

	b, err := s.Mount(target, value, func() { close(done) })
	if err != nil {
		return "", err
	}
	defer func() {
		b.Dispose()
		dom.Clean(target)
	}()

	if err := wait(ctx, q, done, &errs); err != nil {
		return "", err
	}

	r := dom.NewRenderer(dom.RendererConfig{Pretty: config.Pretty})
	if !config.Raw {
		r = dom.NewRenderer(dom.RendererConfig{Pretty: config.Pretty, OmitAttr: s.IsBindingAttr})
	}
	return r.RenderToString(target.Children()...)
}

// wait drains q until done is closed, an error is collected, or ctx ends.
func wait(ctx context.Context, q *reactive.Queue, done <-chan struct{}, errs *[]error) error {
	for {
		if len(*errs) > 0 {
			return errors.Join(*errs...)
		}
		select {
		case <-done:
			return nil
		default:
		}

		select {
		case <-q.Ready():
			q.Drain()
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
