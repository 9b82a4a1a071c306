package simpleado

import "context"

// Scalar is the result of ExecuteScalar. Present is false when the result set
// had no row or no column; a NULL value is Present with a nil Value.
type Scalar struct {
	Value   any
	Present bool
}

// process runs one command: acquire the driver handle, build and bind the
// statement, open a dedicated connection, run exec and release the
// connection on every path.
func process[T any](ctx context.Context, c *Command, exec func(context.Context, *Statement) (T, error)) (out T, err error) {
	if err := c.validate(); err != nil {
		return out, err
	}
	e := c.Engine()

	db, err := e.db(c.connString)
	if err != nil {
		return out, err
	}
	stmt, err := e.statement(c, db)
	if err != nil {
		return out, err
	}

	conn, err := db.DB.Conn(ctx)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			var zero T
			out, err = zero, cerr
		}
	}()

	stmt.conn = conn
	return exec(ctx, stmt)
}

// ExecuteScalar returns the first column of the first row.
func (c *Command) ExecuteScalar(ctx context.Context) (Scalar, error) {
	return process(ctx, c, readScalar)
}

// ExecuteNonQuery runs the command and returns the number of rows affected.
func (c *Command) ExecuteNonQuery(ctx context.Context) (int64, error) {
	return process(ctx, c, func(ctx context.Context, s *Statement) (int64, error) {
		res, err := s.ExecContext(ctx)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

// ExecuteReader loads the first row with loader. It returns the zero value
// when there is no row. Rows after the first are not read.
func ExecuteReader[T any](ctx context.Context, c *Command, loader Loader[T]) (T, error) {
	if loader == nil {
		var zero T
		return zero, ErrNilLoader
	}
	return process(ctx, c, func(ctx context.Context, s *Statement) (T, error) {
		return readOne(ctx, s, loader)
	})
}

// ExecuteReaderSelf loads the first row into a self-loading T.
func ExecuteReaderSelf[T Loadable[T]](ctx context.Context, c *Command) (T, error) {
	return ExecuteReader(ctx, c, selfLoader[T]())
}

// ExecuteReaderList loads every row with loader, in result order. It returns
// an empty slice when there is no row; a loader error discards the rows
// loaded so far.
func ExecuteReaderList[T any](ctx context.Context, c *Command, loader Loader[T]) ([]T, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	return process(ctx, c, func(ctx context.Context, s *Statement) ([]T, error) {
		return readAll(ctx, s, loader)
	})
}

// ExecuteReaderListSelf loads every row into a self-loading T.
func ExecuteReaderListSelf[T Loadable[T]](ctx context.Context, c *Command) ([]T, error) {
	return ExecuteReaderList(ctx, c, selfLoader[T]())
}

// Execute runs fn against the bound statement on an open connection. The
// statement and anything obtained from it are only valid until fn returns.
func Execute[T any](ctx context.Context, c *Command, fn func(context.Context, *Statement) (T, error)) (T, error) {
	if fn == nil {
		var zero T
		return zero, ErrNilLoader
	}
	return process(ctx, c, fn)
}

func readScalar(ctx context.Context, s *Statement) (out Scalar, err error) {
	rows, err := s.QueryContext(ctx)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			out, err = Scalar{}, cerr
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return out, err
	}
	if len(cols) == 0 || !rows.Next() {
		return out, rows.Err()
	}

	var v any
	dest := make([]any, len(cols))
	dest[0] = &v
	for i := 1; i < len(dest); i++ {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return out, err
	}
	return Scalar{Value: v, Present: true}, nil
}

func readOne[T any](ctx context.Context, s *Statement, loader Loader[T]) (out T, err error) {
	rows, err := s.QueryContext(ctx)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			var zero T
			out, err = zero, cerr
		}
	}()

	if !rows.Next() {
		return out, rows.Err()
	}
	row, err := newRow(ctx, rows, s.db)
	if err != nil {
		return out, err
	}
	v, err := loader(row)
	if err != nil {
		return out, err
	}
	return v, nil
}

func readAll[T any](ctx context.Context, s *Statement, loader Loader[T]) (out []T, err error) {
	rows, err := s.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			out, err = nil, cerr
		}
	}()

	row, err := newRow(ctx, rows, s.db)
	if err != nil {
		return nil, err
	}
	out = []T{}
	for rows.Next() {
		v, err := loader(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
