// Package observability wires OpenTelemetry metrics and tracing into the
// binding engine.
//
// Metrics count resolutions, scoped-cache hits and misses, reflective
// activations and disposals. Tracing wraps each resolution in a span; nested
// resolutions on the same container become child spans.
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("bindkit"))
//	c, err := di.New(di.WithMetrics(metrics), di.WithTracer(observability.Tracer("bindkit")))
package observability
