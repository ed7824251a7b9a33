// Package telemetry provides component.Observer implementations for
// logging, Prometheus metrics and OpenTelemetry tracing.
//
// Observers are attached through component.Config:
//
//	metrics := telemetry.NewMetrics(telemetry.WithNamespace("myapp"))
//	cfg := component.Config{
//	    Registry: reg,
//	    Observer: telemetry.Multi(
//	        telemetry.NewLogObserver(logger),
//	        metrics,
//	        telemetry.NewTracer(),
//	    ),
//	}
//
// # Prometheus Metrics
//
// Metrics collected (namespace "compose" by default):
//   - compose_resolutions_total: Resolutions started, by component
//   - compose_mounts_total: Finished mounts by component and status
//   - compose_mount_duration_seconds: Time from resolution to mount
//   - compose_stale_resolutions_total: Superseded resolutions dropped
//   - compose_active_mounts: Currently mounted components
//   - compose_loads_total: Loader fetches by status
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
//
// # OpenTelemetry
//
// Tracer opens a span when a generation starts resolving and ends it when
// the generation mounts, fails or is dropped as stale. TraceLoader wraps a
// component.Loader with a span per fetch. Both use the global tracer
// provider; configure it in main() with otel.SetTracerProvider.
package telemetry
