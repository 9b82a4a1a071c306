package simpleado

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/schema"
	"go.opentelemetry.io/otel/trace"

	"github.com/binhle004/simpleado/connstr"
)

// Config holds engine configuration
type Config struct {
	// Driver
	Open    Opener         // Opens a database/sql handle for a connection string (default: PgDriver)
	Dialect schema.Dialect // SQL dialect of the driver (default: PostgreSQL)
	Binding Binding        // How parameters reach the driver (default: BindAuto)

	// Connection strings
	Provider *connstr.Provider // Resolves names for commands built without a connection string (default: connstr.Default())

	// Driver pool settings, applied only when non-zero
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Driver timeouts, applied only when non-zero and supported by the opener
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Observability (all optional)
	Logger          *slog.Logger          // Structured logger
	LogQueries      bool                  // Log all driver calls
	LogSlowQueries  time.Duration         // Log calls slower than this (0 = disabled)
	MetricsRegistry prometheus.Registerer // Prometheus registry for metrics
	Tracer          trace.Tracer          // OpenTelemetry tracer
}

// DefaultConfig returns a configuration using bun's PostgreSQL driver and the
// process-wide connection-string provider. Pool and timeout settings are left
// to the driver.
func DefaultConfig() Config {
	return Config{
		Open:     PgDriver,
		Dialect:  pgdialect.New(),
		Provider: connstr.Default(),
	}
}

// applyDefaults fills in zero values with defaults
func (c *Config) applyDefaults() {
	if c.Open == nil {
		c.Open = PgDriver
	}
	if c.Dialect == nil {
		c.Dialect = pgdialect.New()
	}
	if c.Provider == nil {
		c.Provider = connstr.Default()
	}
}

// WithOpener selects the driver used to open connections
func (c Config) WithOpener(open Opener, dialect schema.Dialect) Config {
	c.Open = open
	c.Dialect = dialect
	return c
}

// WithProvider resolves connection-string names with p instead of the
// process-wide provider
func (c Config) WithProvider(p *connstr.Provider) Config {
	c.Provider = p
	return c
}

// WithBinding overrides the parameter binding mode
func (c Config) WithBinding(b Binding) Config {
	c.Binding = b
	return c
}

// WithLogger enables query logging
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Logger = logger
	c.LogQueries = true
	return c
}

// WithSlowQueryLog logs queries slower than the threshold
func (c Config) WithSlowQueryLog(threshold time.Duration) Config {
	c.LogSlowQueries = threshold
	return c
}

// WithMetrics enables Prometheus metrics
func (c Config) WithMetrics(registry prometheus.Registerer) Config {
	c.MetricsRegistry = registry
	return c
}

// WithTracing enables OpenTelemetry tracing
func (c Config) WithTracing(tracer trace.Tracer) Config {
	c.Tracer = tracer
	return c
}
