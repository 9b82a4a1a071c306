package simpleado

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/uptrace/bun"
)

// Loader materializes the current row into a T. It is called once per row and
// must not advance or close the cursor.
type Loader[T any] func(r *Row) (T, error)

// Loadable is implemented by types that load themselves from a row. The zero
// value of T is the factory: LoadRow is called on it and its result returned.
//
//	type Product struct {
//	    ID   int64
//	    Name string
//	}
//
//	func (Product) LoadRow(r *simpleado.Row) (Product, error) {
//	    var p Product
//	    err := r.Scan(&p.ID, &p.Name)
//	    return p, err
//	}
type Loadable[T any] interface {
	LoadRow(r *Row) (T, error)
}

func selfLoader[T Loadable[T]]() Loader[T] {
	return func(r *Row) (T, error) {
		var factory T
		return factory.LoadRow(r)
	}
}

// Row is the current row of a cursor as seen by a loader.
type Row struct {
	ctx  context.Context
	rows *sql.Rows
	db   *bun.DB
	cols []string
}

func newRow(ctx context.Context, rows *sql.Rows, db *bun.DB) (*Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return &Row{ctx: ctx, rows: rows, db: db, cols: cols}, nil
}

// Context returns the context of the running command.
func (r *Row) Context() context.Context { return r.ctx }

// Rows returns the underlying cursor, positioned on the current row.
func (r *Row) Rows() *sql.Rows { return r.rows }

// Columns returns the column names of the result set.
func (r *Row) Columns() []string { return slices.Clone(r.cols) }

// Scan copies the columns of the current row into dest, as sql.Rows.Scan.
func (r *Row) Scan(dest ...any) error { return r.rows.Scan(dest...) }

// Index returns the position of column name, compared case-insensitively, or
// -1.
func (r *Row) Index(name string) int {
	for i, c := range r.cols {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Values returns every column of the current row in driver representation.
func (r *Row) Values() ([]any, error) {
	vals := make([]any, len(r.cols))
	dest := make([]any, len(r.cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return nil, err
	}
	return vals, nil
}

// Value returns column name of the current row. ok is false when the result
// set has no such column.
func (r *Row) Value(name string) (v any, ok bool, err error) {
	i := r.Index(name)
	if i < 0 {
		return nil, false, nil
	}
	vals, err := r.Values()
	if err != nil {
		return nil, true, err
	}
	return vals[i], true, nil
}

// Column scans column name of the current row into a T.
func Column[T any](r *Row, name string) (T, error) {
	var v T
	i := r.Index(name)
	if i < 0 {
		return v, &ColumnError{Column: name}
	}
	dest := make([]any, len(r.cols))
	for j := range dest {
		if j == i {
			dest[j] = &v
		} else {
			dest[j] = new(any)
		}
	}
	if err := r.rows.Scan(dest...); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ColumnError reports a column missing from the result set.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return "simpleado: no column " + e.Column + " in result set"
}

// Scan returns a loader reading the first column into a T.
func Scan[T any]() Loader[T] {
	return func(r *Row) (T, error) {
		var v T
		if len(r.cols) == 0 {
			return v, nil
		}
		dest := make([]any, len(r.cols))
		dest[0] = &v
		for j := 1; j < len(dest); j++ {
			dest[j] = new(any)
		}
		if err := r.rows.Scan(dest...); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}
}

// ScanStruct returns a loader mapping columns onto the fields of struct T
// through bun's model scanner. Fields follow bun tags:
//
//	type Product struct {
//	    ID   int64  `bun:"id"`
//	    Name string `bun:"name"`
//	}
func ScanStruct[T any]() Loader[T] {
	return func(r *Row) (T, error) {
		var v T
		if err := r.db.ScanRow(r.ctx, r.rows, &v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}
}
