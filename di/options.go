package di

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/bindkit/introspect"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/observability"
	"github.com/kbukum/bindkit/validation"
)

// Default capacity hints.
const (
	DefaultCapacity      = 127
	DefaultScopeCapacity = 7
)

// component names the logger used by containers.
const component = "di"

type options struct {
	capacity      int
	scopeCapacity int
	parent        BindingSource
	analyzer      introspect.Analyzer
	logger        *logger.Logger
	metrics       *observability.Metrics
	tracer        trace.Tracer

	// set* track explicit nil arguments, which are rejected.
	setAnalyzer bool
	setLogger   bool
}

// Option configures a Container.
type Option func(*options)

// WithCapacity sets the initial binding-table capacity. Must be positive.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithScopeCapacity sets the initial scoped-cache capacity. Must be positive.
func WithScopeCapacity(n int) Option {
	return func(o *options) { o.scopeCapacity = n }
}

// WithParent sets the binding source consulted for keys not bound locally.
// A nil parent means none.
func WithParent(parent BindingSource) Option {
	return func(o *options) {
		if validation.IsNil(parent) {
			o.parent = nil
			return
		}
		o.parent = parent
	}
}

// WithAnalyzer sets the constructor analyzer used by activators. Defaults to
// introspect.Default().
func WithAnalyzer(a introspect.Analyzer) Option {
	return func(o *options) {
		o.analyzer = a
		o.setAnalyzer = true
	}
}

// WithLogger sets the container logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.setLogger = true
	}
}

// WithMetrics enables resolution metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer enables a span per resolution.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func defaultOptions() options {
	return options{
		capacity:      DefaultCapacity,
		scopeCapacity: DefaultScopeCapacity,
		analyzer:      introspect.Default(),
	}
}

func (o *options) validate() error {
	v := validation.New().
		Positive("capacity", o.capacity).
		Positive("scope_capacity", o.scopeCapacity)
	if o.setAnalyzer {
		v.NotNil("analyzer", o.analyzer)
	}
	if o.setLogger {
		v.NotNil("logger", o.logger)
	}
	return v.Validate()
}
