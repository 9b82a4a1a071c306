// Package connstr resolves logical connection-string names to connection strings.
//
// A Provider looks names up in one or more Sources and applies the process
// settings on top: the active name used by ConnectionString and an optional
// application-name override written into every resolved string.
//
// The package-level functions operate on a single process-wide Provider. Set it
// up at startup; tests that change it must call Reset when they are done, since
// nothing is restored automatically.
package connstr

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultName is the active connection-string name until SetName is called.
const DefaultName = "Default"

// ErrNotRegistered matches every *Error returned by Resolve.
var ErrNotRegistered = errors.New("connstr: connection string not registered")

// Error reports a name that no source knows about.
type Error struct {
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("connstr: connection string %q is not registered", e.Name)
}

// Is implements errors.Is for ErrNotRegistered.
func (e *Error) Is(target error) bool {
	return target == ErrNotRegistered
}

// Provider resolves connection strings. It is safe for concurrent use; setting
// changes only affect resolutions made afterwards.
type Provider struct {
	mu         sync.RWMutex
	sources    Chain
	registered map[string]string
	name       string
	appName    string
	appNameSet bool
}

// NewProvider returns a Provider looking names up in sources, in order.
func NewProvider(sources ...Source) *Provider {
	return &Provider{
		sources:    Chain(sources),
		registered: make(map[string]string),
		name:       DefaultName,
	}
}

// Register adds or replaces a connection string. Registered entries take
// precedence over the provider's sources.
func (p *Provider) Register(name, connString string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered[name] = connString
}

// Resolve returns the connection string registered under name with the
// application-name override applied. It returns an *Error when name is unknown.
func (p *Provider) Resolve(name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cs, ok := p.registered[name]
	if !ok {
		cs, ok = p.sources.Lookup(name)
	}
	if !ok {
		return "", &Error{Name: name}
	}

	if p.appNameSet {
		cs = WithApplicationName(cs, p.appName)
	}
	return cs, nil
}

// ConnectionString resolves the active name.
func (p *Provider) ConnectionString() (string, error) {
	return p.Resolve(p.Name())
}

// Name returns the active connection-string name.
func (p *Provider) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// SetName changes the active connection-string name.
func (p *Provider) SetName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

// SetApplicationName makes every later resolution carry name as the
// connection's application name.
func (p *Provider) SetApplicationName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appName = name
	p.appNameSet = true
}

// ClearApplicationName removes the override; resolved strings are returned as
// registered and the driver picks its own application name.
func (p *Provider) ClearApplicationName() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appName = ""
	p.appNameSet = false
}

// ApplicationName returns the override and whether one is set.
func (p *Provider) ApplicationName() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.appName, p.appNameSet
}

// Reset restores the active name to DefaultName and clears the application
// name override. Registered entries and sources are kept.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = DefaultName
	p.appName = ""
	p.appNameSet = false
}

// std is the process-wide provider. Names are read from the environment
// (see Env) unless registered explicitly.
var std = NewProvider(Env{})

// Default returns the process-wide provider.
func Default() *Provider { return std }

// Resolve resolves name with the process-wide provider.
func Resolve(name string) (string, error) { return std.Resolve(name) }

// ConnectionString resolves the process-wide active name.
func ConnectionString() (string, error) { return std.ConnectionString() }

// Register adds a connection string to the process-wide provider.
func Register(name, connString string) { std.Register(name, connString) }

// SetName changes the process-wide active name.
func SetName(name string) { std.SetName(name) }

// SetApplicationName sets the process-wide application-name override.
func SetApplicationName(name string) { std.SetApplicationName(name) }

// ClearApplicationName removes the process-wide application-name override.
func ClearApplicationName() { std.ClearApplicationName() }

// Reset restores the process-wide settings.
func Reset() { std.Reset() }
