/*
Package simpleado provides a minimal data-access layer over database/sql.

A Command describes what to run: text, command type, connection string and
ordered parameters. The Engine owns how it runs. Every execution acquires the
driver handle for the command's connection string, binds the parameters in
order, opens a dedicated connection, runs, and releases the cursor and the
connection on every path, including errors and context cancellation.

  - Immutable commands built with functional options
  - Connection strings resolved by name (see package connstr)
  - Scalar, non-query, single-row and multi-row operations
  - Loader functions, self-loading types and a raw statement escape hatch
  - Blocking and asynchronous (Future) variants of every operation
  - Error classification over raw PostgreSQL driver errors
  - Configurable observability (logging, metrics, tracing)

# Basic Usage

	connstr.Register("Default", os.Getenv("DATABASE_URL"))

	name, err := simpleado.New("SELECT name FROM product WHERE id = $1").
	    AddParam("id", 42).
	    ExecuteScalar(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	if name.Present {
	    fmt.Println(name.Value)
	}

	n, err := simpleado.New("UPDATE product SET price = $1 WHERE id = $2").
	    AddParam("price", 9.5).
	    AddParam("id", 42).
	    ExecuteNonQuery(ctx)

# Engines

New uses the process-wide engine, which opens connections with bun's
PostgreSQL driver. Build an engine for anything else:

	cfg := simpleado.DefaultConfig().
	    WithOpener(simpleado.PgxDriver, pgdialect.New()).
	    WithLogger(slog.Default()).
	    WithSlowQueryLog(100 * time.Millisecond)

	engine, err := simpleado.NewEngine(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	defer engine.Close()

	cmd := engine.Command("SELECT 1", simpleado.WithConnectionName("Reporting"))

# Reading Rows

With a loader function:

	p, err := simpleado.ExecuteReader(ctx, cmd, func(r *simpleado.Row) (Product, error) {
	    var p Product
	    err := r.Scan(&p.ID, &p.Name)
	    return p, err
	})

With a self-loading type (see Loadable):

	products, err := simpleado.ExecuteReaderListSelf[Product](ctx, cmd)

With bun struct tags:

	products, err := simpleado.ExecuteReaderList(ctx, cmd, simpleado.ScanStruct[Product]())

ExecuteReader reads the first row only; further rows are ignored.

# Escape Hatch

	err := simpleado.Execute(ctx, cmd, func(ctx context.Context, s *simpleado.Statement) (struct{}, error) {
	    rows, err := s.QueryContext(ctx)
	    // ...
	})

The statement and its connection are released when the function returns.

# Asynchronous Execution

	f := simpleado.ExecuteReaderListAsync(ctx, cmd, simpleado.Scan[string]())

	select {
	case <-f.Done():
	case <-time.After(time.Second):
	    cancel() // the connection is released before Done closes
	}
	names, err := f.Wait()

# Error Handling

Driver errors are returned unwrapped; classify them without unwrapping:

	if _, err := cmd.ExecuteNonQuery(ctx); err != nil {
	    if simpleado.IsDuplicate(err) {
	        constraint, _ := simpleado.GetConstraint(err)
	        fmt.Println(constraint) // product_sku_key
	    }
	    if simpleado.IsConfiguration(err) {
	        // unregistered connection-string name
	    }
	}
*/
package simpleado
