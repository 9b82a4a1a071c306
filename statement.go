package simpleado

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/uptrace/bun"

	"github.com/binhle004/simpleado/hooks"
)

// Statement is the driver-level command of one execution: the rendered text
// and bound arguments on a dedicated connection. It is only valid inside the
// function passed to Execute; the connection is released when that function
// returns.
type Statement struct {
	conn   *sql.Conn
	db     *bun.DB
	text   string
	kind   CommandType
	args   []any
	system string
	hooks  []hooks.Hook
}

// Text returns the statement text sent to the driver.
func (s *Statement) Text() string { return s.text }

// Type returns the command type the statement was built from.
func (s *Statement) Type() CommandType { return s.kind }

// Args returns a copy of the bound arguments in binding order.
func (s *Statement) Args() []any { return slices.Clone(s.args) }

// Conn returns the connection the statement runs on.
func (s *Statement) Conn() *sql.Conn { return s.conn }

// ExecContext runs the statement without returning rows.
func (s *Statement) ExecContext(ctx context.Context) (sql.Result, error) {
	ctx, event := s.before(ctx, "exec")
	res, err := s.conn.ExecContext(ctx, s.text, s.args...)
	s.after(ctx, event, err)
	return res, err
}

// QueryContext runs the statement and returns its cursor. The caller closes
// the rows.
func (s *Statement) QueryContext(ctx context.Context) (*sql.Rows, error) {
	ctx, event := s.before(ctx, "query")
	rows, err := s.conn.QueryContext(ctx, s.text, s.args...)
	s.after(ctx, event, err)
	return rows, err
}

// QueryRowContext runs the statement expecting at most one row.
func (s *Statement) QueryRowContext(ctx context.Context) *sql.Row {
	ctx, event := s.before(ctx, "query_row")
	row := s.conn.QueryRowContext(ctx, s.text, s.args...)
	s.after(ctx, event, row.Err())
	return row
}

func (s *Statement) before(ctx context.Context, method string) (context.Context, *hooks.QueryEvent) {
	if len(s.hooks) == 0 {
		return ctx, nil
	}
	event := &hooks.QueryEvent{
		Method:    method,
		System:    s.system,
		Query:     s.text,
		Args:      s.args,
		StartTime: time.Now(),
	}
	return hooks.Before(ctx, s.hooks, event), event
}

func (s *Statement) after(ctx context.Context, event *hooks.QueryEvent, err error) {
	if event == nil {
		return
	}
	event.Err = err
	hooks.After(ctx, s.hooks, event)
}
