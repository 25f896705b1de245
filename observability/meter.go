package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/version"
)

// Metric instrument names.
const (
	MetricResolveTotal    = "di.resolve.total"
	MetricScopeCacheHits  = "di.scope.cache.hits"
	MetricScopeCacheMiss  = "di.scope.cache.misses"
	MetricActivationTotal = "di.activation.total"
	MetricDisposeTotal    = "di.dispose.total"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments the container records into.
type Metrics struct {
	resolveTotal    metric.Int64Counter
	scopeHits       metric.Int64Counter
	scopeMisses     metric.Int64Counter
	activationTotal metric.Int64Counter
	disposeTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resolveTotal, err := meter.Int64Counter(MetricResolveTotal,
		metric.WithDescription("Total number of resolutions by kind and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveTotal, err)
	}

	scopeHits, err := meter.Int64Counter(MetricScopeCacheHits,
		metric.WithDescription("Scoped resolutions served from the container cache"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricScopeCacheHits, err)
	}

	scopeMisses, err := meter.Int64Counter(MetricScopeCacheMiss,
		metric.WithDescription("Scoped resolutions that produced a new cached instance"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricScopeCacheMiss, err)
	}

	activationTotal, err := meter.Int64Counter(MetricActivationTotal,
		metric.WithDescription("Reflective constructor activations by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricActivationTotal, err)
	}

	disposeTotal, err := meter.Int64Counter(MetricDisposeTotal,
		metric.WithDescription("Scoped instances closed during container disposal"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDisposeTotal, err)
	}

	return &Metrics{
		resolveTotal:    resolveTotal,
		scopeHits:       scopeHits,
		scopeMisses:     scopeMisses,
		activationTotal: activationTotal,
		disposeTotal:    disposeTotal,
	}, nil
}

// RecordResolve records one resolution. kind is "scalar" or "collection".
func (m *Metrics) RecordResolve(ctx context.Context, kind string, err error) {
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrKind, kind),
		attribute.String(AttrStatus, statusOf(err)),
	))
}

// RecordScopeHit records a scoped-cache hit.
func (m *Metrics) RecordScopeHit(ctx context.Context, kind string) {
	m.scopeHits.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}

// RecordScopeMiss records a scoped-cache miss.
func (m *Metrics) RecordScopeMiss(ctx context.Context, kind string) {
	m.scopeMisses.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}

// RecordActivation records a reflective activation.
func (m *Metrics) RecordActivation(ctx context.Context, err error) {
	m.activationTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, statusOf(err))))
}

// RecordDispose records closed scoped instances.
func (m *Metrics) RecordDispose(ctx context.Context, closed int, err error) {
	m.disposeTotal.Add(ctx, int64(closed), metric.WithAttributes(attribute.String(AttrStatus, statusOf(err))))
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
