package simpleado

import (
	"errors"
	"fmt"
	"sync"

	"github.com/uptrace/bun"

	"github.com/binhle004/simpleado/connstr"
	"github.com/binhle004/simpleado/hooks"
)

// Engine executes commands. It owns one driver handle per connection string
// and the observability hooks; it holds no per-command state, so any number of
// commands may run through it concurrently.
type Engine struct {
	config Config
	hooks  []hooks.Hook

	mu     sync.Mutex
	dbs    map[string]*bun.DB
	closed bool
}

// NewEngine creates an engine with the given configuration. No connection is
// made until a command runs.
func NewEngine(cfg Config) (*Engine, error) {
	e := newEngine(cfg)

	// Add observability hooks
	if e.config.Logger != nil && (e.config.LogQueries || e.config.LogSlowQueries > 0) {
		e.hooks = append(e.hooks, hooks.NewLoggerHook(e.config.Logger, e.config.LogQueries, e.config.LogSlowQueries))
	}
	if e.config.MetricsRegistry != nil {
		hook, err := hooks.NewMetricsHook(e.config.MetricsRegistry)
		if err != nil {
			return nil, fmt.Errorf("simpleado: failed to create metrics hook: %w", err)
		}
		e.hooks = append(e.hooks, hook)
	}
	if e.config.Tracer != nil {
		e.hooks = append(e.hooks, hooks.NewTracingHook(e.config.Tracer))
	}

	return e, nil
}

func newEngine(cfg Config) *Engine {
	// Apply defaults for zero values
	cfg.applyDefaults()
	return &Engine{
		config: cfg,
		dbs:    make(map[string]*bun.DB),
	}
}

// AddHook registers an additional hook. Call it before running commands.
func (e *Engine) AddHook(h hooks.Hook) {
	e.hooks = append(e.hooks, h)
}

// Config returns the current configuration
func (e *Engine) Config() Config {
	return e.config
}

// Provider returns the provider used to resolve connection-string names.
func (e *Engine) Provider() *connstr.Provider {
	return e.config.Provider
}

// Bun returns the driver handle for connString, opening it on first use.
func (e *Engine) Bun(connString string) (*bun.DB, error) {
	return e.db(connString)
}

func (e *Engine) db(connString string) (*bun.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	if db, ok := e.dbs[connString]; ok {
		return db, nil
	}

	sqlDB, err := e.config.Open(connString, e.config)
	if err != nil {
		return nil, err
	}

	// Configure the driver pool only where asked to
	if e.config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(e.config.MaxOpenConns)
	}
	if e.config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(e.config.MaxIdleConns)
	}
	if e.config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(e.config.ConnMaxLifetime)
	}
	if e.config.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(e.config.ConnMaxIdleTime)
	}

	db := bun.NewDB(sqlDB, e.config.Dialect)
	e.dbs[connString] = db
	return db, nil
}

// Close closes every driver handle. Commands run afterwards fail with
// ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	var errs []error
	for cs, db := range e.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(e.dbs, cs)
	}
	return errors.Join(errs...)
}

// Command builds a command bound to this engine. See New.
func (e *Engine) Command(text string, opts ...Option) *Command {
	return newCommand(e, text, opts)
}

// Procedure builds a stored-procedure command bound to this engine.
func (e *Engine) Procedure(name string, opts ...Option) *Command {
	return newCommand(e, name, append([]Option{WithCommandType(StoredProcedure)}, opts...))
}

// statement constructs the driver-level command for c and binds its
// parameters in insertion order.
func (e *Engine) statement(c *Command, db *bun.DB) (*Statement, error) {
	named := e.bindNamed()

	text := c.text
	if c.kind == StoredProcedure {
		var err error
		text, err = procedureCall(e.config.Dialect.Name(), c.text, c.params, named)
		if err != nil {
			return nil, err
		}
	}

	return &Statement{
		db:     db,
		text:   text,
		kind:   c.kind,
		args:   bindArgs(c.params, named),
		system: systemName(e.config.Dialect.Name()),
		hooks:  e.hooks,
	}, nil
}

var (
	defaultMu     sync.RWMutex
	defaultEngine *Engine
)

// Default returns the process-wide engine used by New. Unless replaced with
// SetDefault it is built from DefaultConfig on first use.
func Default() *Engine {
	defaultMu.RLock()
	e := defaultEngine
	defaultMu.RUnlock()
	if e != nil {
		return e
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil {
		defaultEngine = newEngine(DefaultConfig())
	}
	return defaultEngine
}

// SetDefault replaces the process-wide engine. The previous engine is not
// closed.
func SetDefault(e *Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = e
}
