package simpleado

import (
	"database/sql"
	"fmt"

	"github.com/uptrace/bun/dialect"
)

// Binding selects how command parameters reach the driver.
type Binding int

const (
	// BindAuto binds by name for SQL Server and SQLite and by position
	// otherwise.
	BindAuto Binding = iota
	// BindNamed passes every parameter with a name as sql.NamedArg.
	BindNamed
	// BindPositional passes parameter values in insertion order and drops
	// their names.
	BindPositional
)

func (b Binding) String() string {
	switch b {
	case BindAuto:
		return "auto"
	case BindNamed:
		return "named"
	case BindPositional:
		return "positional"
	default:
		return fmt.Sprintf("Binding(%d)", int(b))
	}
}

func (e *Engine) bindNamed() bool {
	switch e.config.Binding {
	case BindNamed:
		return true
	case BindPositional:
		return false
	}
	switch e.config.Dialect.Name() {
	case dialect.MSSQL, dialect.SQLite:
		return true
	default:
		return false
	}
}

// bindArgs converts params to driver arguments, preserving order and
// duplicates.
func bindArgs(params []sql.NamedArg, named bool) []any {
	args := make([]any, len(params))
	for i, p := range params {
		if named && p.Name != "" {
			args[i] = p
		} else {
			args[i] = p.Value
		}
	}
	return args
}

// procedureCall renders the statement that invokes the stored procedure name
// with one placeholder per parameter.
func procedureCall(d dialect.Name, name string, params []sql.NamedArg, named bool) (string, error) {
	switch d {
	case dialect.PG:
		return "CALL " + name + "(" + joinPlaceholders(len(params), dollar) + ")", nil
	case dialect.MySQL:
		return "CALL " + name + "(" + joinPlaceholders(len(params), question) + ")", nil
	case dialect.MSSQL:
		if len(params) == 0 {
			return "EXEC " + name, nil
		}
		if !named {
			return "EXEC " + name + " " + joinPlaceholders(len(params), atP), nil
		}
		return "EXEC " + name + " " + joinPlaceholders(len(params), func(i int) string {
			p := params[i-1].Name
			if p == "" {
				return atP(i)
			}
			return "@" + p + " = @" + p
		}), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrProcedureUnsupported, d)
	}
}

// systemName reports the database family for observability.
func systemName(d dialect.Name) string {
	switch d {
	case dialect.PG:
		return "postgresql"
	case dialect.MySQL:
		return "mysql"
	case dialect.MSSQL:
		return "mssql"
	case dialect.SQLite:
		return "sqlite"
	default:
		return d.String()
	}
}
