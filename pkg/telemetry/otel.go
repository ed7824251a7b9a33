package telemetry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/compose/pkg/component"
)

// Default tracer name.
const defaultTracerName = "compose"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "compose").
	TracerName string

	// Context is the parent of every mount span (default:
	// context.Background()).
	Context context.Context

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithParentContext sets the context mount spans are children of.
func WithParentContext(ctx context.Context) TracerOption {
	return func(c *TracerConfig) {
		if ctx != nil {
			c.Context = ctx
		}
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracerOption {
	return func(c *TracerConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

func defaultTracerConfig() TracerConfig {
	return TracerConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Tracer is a component.Observer that records one span per generation.
type Tracer struct {
	config TracerConfig
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[uint64]trace.Span
}

// NewTracer creates a Tracer using the global tracer provider.
func NewTracer(opts ...TracerOption) *Tracer {
	config := defaultTracerConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Tracer{
		config: config,
		tracer: otel.Tracer(config.TracerName),
		spans:  make(map[uint64]trace.Span),
	}
}

func (t *Tracer) Resolving(name string, generation uint64) {
	attrs := append([]attribute.KeyValue{
		attribute.String("compose.component", name),
		attribute.Int64("compose.generation", int64(generation)),
	}, t.config.Attributes...)

	_, span := t.tracer.Start(t.config.Context, "compose.mount "+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)

	t.mu.Lock()
	t.spans[generation] = span
	t.mu.Unlock()
}

func (t *Tracer) Stale(_ string, generation uint64) {
	if span := t.take(generation); span != nil {
		span.SetAttributes(attribute.Bool("compose.stale", true))
		span.SetStatus(codes.Unset, "superseded")
		span.End()
	}
}

func (t *Tracer) Mounted(_ string, generation uint64, _ time.Duration) {
	if span := t.take(generation); span != nil {
		span.SetStatus(codes.Ok, "")
		span.End()
	}
}

func (t *Tracer) Failed(name string, generation uint64, err error) {
	span := t.take(generation)
	if span == nil {
		// Configuration errors fail before a generation starts.
		_, span = t.tracer.Start(t.config.Context, "compose.mount "+name,
			trace.WithAttributes(attribute.String("compose.component", name)))
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String("compose.error_code", errorCode(err)))
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

func (t *Tracer) Unmounted(string) {}

// Pending returns the number of spans still open.
func (t *Tracer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}

func (t *Tracer) take(generation uint64) trace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	span, ok := t.spans[generation]
	if !ok {
		return nil
	}
	delete(t.spans, generation)
	return span
}

// TraceLoader wraps l so every load runs in its own span. The span context
// is passed to l, so HTTP and S3 loads made with it are children of the
// span.
func TraceLoader(l component.Loader, opts ...TracerOption) component.Loader {
	config := defaultTracerConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tracer := otel.Tracer(config.TracerName)

	return component.LoaderFunc(func(ctx context.Context, name string) (*component.Definition, error) {
		ctx, span := tracer.Start(ctx, "compose.load "+name,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(append([]attribute.KeyValue{
				attribute.String("compose.component", name),
			}, config.Attributes...)...),
		)
		defer span.End()

		def, err := l.Load(ctx, name)
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		default:
			span.SetAttributes(attribute.String("compose.found", strconv.FormatBool(def != nil)))
			span.SetStatus(codes.Ok, "")
		}
		return def, err
	})
}

var _ component.Observer = (*Tracer)(nil)
