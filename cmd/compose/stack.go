package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/compose"
	"github.com/vango-dev/compose/internal/config"
	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/component"
	"github.com/vango-dev/compose/pkg/reactive"
	"github.com/vango-dev/compose/pkg/telemetry"
)

// stack is everything a command needs to mount components.
type stack struct {
	cfg     *config.Config
	logger  *slog.Logger
	loaders *component.LoaderRegistry

	// dir is set for the dir source.
	dir *component.DirLoader

	// metrics and gatherer are set when telemetry.metrics is on.
	metrics  *telemetry.Metrics
	gatherer *prometheus.Registry
}

// loadConfig reads compose.json from dir. Without one, the defaults are
// used with paths relative to dir.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		var ce *cerrors.ComposeError
		if !errors.As(err, &ce) || ce.Code != "E303" {
			return nil, err
		}
		cfg = config.New()
		cfg.Registry.Dir = filepath.Join(dir, cfg.Registry.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newStack(cfg *config.Config, logger *slog.Logger) *stack {
	st := &stack{cfg: cfg, logger: logger}

	var loader component.Loader
	switch cfg.Registry.Source {
	case config.SourceHTTP:
		loader = component.NewHTTPLoader(cfg.Registry.URL, nil)
	case config.SourceS3:
		s3cfg := cfg.Registry.S3
		loader = component.NewS3Loader(newS3Client(s3cfg), s3cfg.Bucket, s3cfg.Prefix, nil)
	default:
		st.dir = component.NewDirLoader(cfg.ComponentsPath(), nil)
		loader = st.dir
	}

	if cfg.Telemetry.Metrics {
		st.gatherer = prometheus.NewRegistry()
		st.gatherer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		st.metrics = telemetry.NewMetrics(
			telemetry.WithRegistry(st.gatherer),
			telemetry.WithNamespace(cfg.Telemetry.Namespace),
		)
		loader = st.metrics.InstrumentLoader(loader)
	}
	if cfg.Telemetry.Tracing {
		loader = telemetry.TraceLoader(loader)
	}

	// Sessions deliver through their own dispatchers; the registry's
	// dispatcher is never used for mounts.
	st.loaders = component.NewLoaderRegistry(loader, reactive.Immediate,
		component.WithLoadTimeout(cfg.LoadTimeout()),
		component.WithLoaderLogger(logger),
	)
	return st
}

func (st *stack) engine() *compose.Engine {
	observers := []component.Observer{telemetry.NewLogObserver(st.logger)}
	if st.metrics != nil {
		observers = append(observers, st.metrics)
	}
	if st.cfg.Telemetry.Tracing {
		observers = append(observers, telemetry.NewTracer())
	}

	return compose.New(
		compose.WithRegistry(st.loaders),
		compose.WithObserver(telemetry.Multi(observers...)),
		compose.WithLogger(st.logger),
	)
}

// names lists the available components, or returns nil when the source
// cannot be listed.
func (st *stack) names() func() ([]string, error) {
	if st.dir == nil {
		return nil
	}
	return st.dir.Names
}

// preload warms the cache with registry.preload.
func (st *stack) preload(ctx context.Context) {
	names := st.cfg.Registry.Preload
	if len(names) == 0 {
		return
	}
	if err := st.loaders.Preload(ctx, names...); err != nil {
		st.logger.Warn("preload failed", "error", err)
		return
	}
	st.logger.Info("preloaded components", "count", len(names))
}

// watch invalidates cached definitions as files change, until ctx ends.
func (st *stack) watch(ctx context.Context) {
	if st.dir == nil || !st.cfg.Registry.Watch {
		return
	}
	go func() {
		err := component.WatchInvalidate(ctx, st.dir, st.loaders, st.logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			st.logger.Warn("component watcher stopped", "error", err)
		}
	}()
}

func newS3Client(c config.S3Config) *s3.Client {
	region := c.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	opts := s3.Options{
		Region:       region,
		UsePathStyle: c.PathStyle,
		Credentials:  aws.NewCredentialsCache(envCredentials()),
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
	}
	return s3.New(opts)
}

// envCredentials reads static credentials from the standard AWS
// environment variables.
func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	})
}
