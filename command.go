package simpleado

import (
	"database/sql"
	"slices"
	"strconv"
	"strings"

	"github.com/binhle004/simpleado/connstr"
)

// CommandType tells how the command text is interpreted.
type CommandType int

const (
	// Text is a SQL statement sent as written.
	Text CommandType = iota
	// StoredProcedure is a procedure name; the call statement is rendered for
	// the engine's dialect.
	StoredProcedure
)

func (t CommandType) String() string {
	switch t {
	case Text:
		return "Text"
	case StoredProcedure:
		return "StoredProcedure"
	default:
		return "CommandType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Command describes one executable database command: its text, its type, the
// connection string it runs against and its parameters.
//
// Commands are immutable. AddParam and AddParams return a new Command and
// leave the receiver untouched, so a partially built command can be shared and
// extended independently. A Command holds no connection state; every execution
// opens and releases its own connection.
type Command struct {
	engine     *Engine
	text       string
	kind       CommandType
	connString string
	params     []sql.NamedArg
	err        error
}

// Option configures a Command at construction.
type Option func(*commandOptions)

type commandOptions struct {
	kind          CommandType
	connString    string
	hasConnString bool
	name          string
	hasName       bool
	provider      *connstr.Provider
}

// WithConnectionString runs the command against cs. The connection-string
// provider is not consulted.
func WithConnectionString(cs string) Option {
	return func(o *commandOptions) {
		o.connString = cs
		o.hasConnString = true
	}
}

// WithCommandType sets how the command text is interpreted (default Text).
func WithCommandType(kind CommandType) Option {
	return func(o *commandOptions) {
		o.kind = kind
	}
}

// WithConnectionName resolves name instead of the provider's active name.
func WithConnectionName(name string) Option {
	return func(o *commandOptions) {
		o.name = name
		o.hasName = true
	}
}

// WithProvider resolves the connection string with p instead of the engine's
// provider.
func WithProvider(p *connstr.Provider) Option {
	return func(o *commandOptions) {
		o.provider = p
	}
}

// New builds a command on the default engine. Without options the command
// type is Text and the connection string is resolved from the provider's
// active name right away:
//
//	cmd := simpleado.New("SELECT name FROM product WHERE id = $1").AddParam("id", 1)
//
// Resolution errors (an unregistered name) and empty text are kept on the
// command, reported by Err and returned by every execution before any
// connection is attempted.
func New(text string, opts ...Option) *Command {
	return Default().Command(text, opts...)
}

// Procedure builds a stored-procedure command on the default engine.
func Procedure(name string, opts ...Option) *Command {
	return Default().Procedure(name, opts...)
}

func newCommand(e *Engine, text string, opts []Option) *Command {
	o := commandOptions{kind: Text}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Command{
		engine: e,
		text:   text,
		kind:   o.kind,
	}
	if strings.TrimSpace(text) == "" {
		c.err = ErrEmptyCommandText
	}

	if o.hasConnString {
		c.connString = o.connString
		return c
	}

	p := o.provider
	if p == nil {
		p = e.config.Provider
	}

	var (
		cs  string
		err error
	)
	if o.hasName {
		cs, err = p.Resolve(o.name)
	} else {
		cs, err = p.ConnectionString()
	}
	c.connString = cs
	if c.err == nil {
		c.err = err
	}
	return c
}

// AddParam returns a copy of c with one more parameter. An empty name binds
// the value by position only.
func (c *Command) AddParam(name string, value any) *Command {
	return c.AddParams(sql.Named(name, value))
}

// AddParams returns a copy of c with args appended in order. Duplicate names
// are kept.
func (c *Command) AddParams(args ...sql.NamedArg) *Command {
	next := *c
	next.params = make([]sql.NamedArg, 0, len(c.params)+len(args))
	next.params = append(next.params, c.params...)
	next.params = append(next.params, args...)
	return &next
}

// Text returns the command text.
func (c *Command) Text() string { return c.text }

// Type returns the command type.
func (c *Command) Type() CommandType { return c.kind }

// ConnectionString returns the connection string the command runs against.
func (c *Command) ConnectionString() string { return c.connString }

// Params returns a copy of the parameters in binding order.
func (c *Command) Params() []sql.NamedArg { return slices.Clone(c.params) }

// Err returns the construction error, if any.
func (c *Command) Err() error { return c.err }

// Engine returns the engine the command runs on.
func (c *Command) Engine() *Engine {
	if c.engine == nil {
		return Default()
	}
	return c.engine
}

func (c *Command) validate() error {
	if c.err != nil {
		return c.err
	}
	if strings.TrimSpace(c.text) == "" {
		return ErrEmptyCommandText
	}
	return nil
}
